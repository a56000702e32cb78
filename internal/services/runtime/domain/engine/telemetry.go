package engine

import (
	"log"
	"math"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/louisbranch/palletrun/internal/services/runtime/domain/engine"

type instruments struct {
	tracer           trace.Tracer
	blocksExecuted   metric.Int64Counter
	blocksRejected   metric.Int64Counter
	extrinsicsFailed metric.Int64Counter
}

func newInstruments(tp trace.TracerProvider, mp metric.MeterProvider, logger *log.Logger) instruments {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	return instruments{
		tracer:           tp.Tracer(instrumentationName),
		blocksExecuted:   counter(meter, "runtime.blocks.executed", "Blocks whose header matched and whose extrinsics were applied.", logger),
		blocksRejected:   counter(meter, "runtime.blocks.rejected", "Blocks rejected for a header mismatch.", logger),
		extrinsicsFailed: counter(meter, "runtime.extrinsics.failed", "Extrinsics whose dispatch returned an error.", logger),
	}
}

func counter(meter metric.Meter, name, description string, logger *log.Logger) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		logger.Printf("create counter %s: %v", name, err)
		noop, _ := metricnoop.NewMeterProvider().Meter(instrumentationName).Int64Counter(name)
		return noop
	}
	return c
}

// blockNumberAttribute records n as an int64, or as a decimal string when it
// does not fit.
func blockNumberAttribute(n uint64) attribute.KeyValue {
	if n > math.MaxInt64 {
		return attribute.String("block.number", strconv.FormatUint(n, 10))
	}
	return attribute.Int64("block.number", int64(n))
}
