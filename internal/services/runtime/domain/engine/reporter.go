package engine

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"

	apperrors "github.com/louisbranch/palletrun/internal/platform/errors"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/call"
)

// ExtrinsicOutcome describes the result of one dispatched extrinsic.
type ExtrinsicOutcome struct {
	BlockNumber uint64
	Index       int
	Caller      string
	Call        call.Type
	// Err is nil when the extrinsic succeeded.
	Err error
}

// Failed reports whether the extrinsic returned an error.
func (o ExtrinsicOutcome) Failed() bool { return o.Err != nil }

// Code returns the error code of a failed extrinsic, or "" on success.
func (o ExtrinsicOutcome) Code() apperrors.Code {
	if o.Err == nil {
		return ""
	}
	return apperrors.GetCode(o.Err)
}

// Reporter receives every extrinsic outcome. Returned errors are logged by
// the runtime and never fail the block.
type Reporter interface {
	ReportExtrinsic(ctx context.Context, outcome ExtrinsicOutcome) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, outcome ExtrinsicOutcome) error

// ReportExtrinsic calls f.
func (f ReporterFunc) ReportExtrinsic(ctx context.Context, outcome ExtrinsicOutcome) error {
	return f(ctx, outcome)
}

// LogReporter logs failed extrinsics.
type LogReporter struct {
	Logger *log.Logger
}

// ReportExtrinsic logs the outcome if it failed.
func (r LogReporter) ReportExtrinsic(_ context.Context, outcome ExtrinsicOutcome) error {
	if !outcome.Failed() {
		return nil
	}
	logger := r.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	prefix := "extrinsic error"
	if outcome.Code().Scope() == apperrors.ScopeContract {
		prefix = "extrinsic contract violation"
	}
	logger.Printf("%s: block=%d extrinsic=%d caller=%s call=%s: %v",
		prefix, outcome.BlockNumber, outcome.Index, outcome.Caller, outcome.Call, outcome.Err)
	return nil
}

// MultiReporter fans an outcome out to several reporters. Every reporter is
// called; their errors are joined.
type MultiReporter []Reporter

func (m MultiReporter) ReportExtrinsic(ctx context.Context, outcome ExtrinsicOutcome) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.ReportExtrinsic(ctx, outcome); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps outcomes in memory.
type Recorder struct {
	mu       sync.Mutex
	outcomes []ExtrinsicOutcome
}

func (r *Recorder) ReportExtrinsic(_ context.Context, outcome ExtrinsicOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
	return nil
}

// Outcomes returns a copy of every recorded outcome.
func (r *Recorder) Outcomes() []ExtrinsicOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ExtrinsicOutcome(nil), r.outcomes...)
}

// Failures returns only the failed outcomes.
func (r *Recorder) Failures() []ExtrinsicOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	var failed []ExtrinsicOutcome
	for _, o := range r.outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}
