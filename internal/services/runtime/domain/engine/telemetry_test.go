package engine

import (
	"math"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestBlockNumberAttribute(t *testing.T) {
	tests := []struct {
		name     string
		number   uint64
		wantType attribute.Type
		want     string
	}{
		{name: "small", number: 7, wantType: attribute.INT64, want: "7"},
		{name: "max int64", number: math.MaxInt64, wantType: attribute.INT64, want: "9223372036854775807"},
		{name: "above int64", number: math.MaxInt64 + 1, wantType: attribute.STRING, want: "9223372036854775808"},
		{name: "max uint64", number: math.MaxUint64, wantType: attribute.STRING, want: "18446744073709551615"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := blockNumberAttribute(tt.number)
			if attr.Key != "block.number" {
				t.Fatalf("key = %q", attr.Key)
			}
			if attr.Value.Type() != tt.wantType {
				t.Fatalf("type = %v, want %v", attr.Value.Type(), tt.wantType)
			}
			if got := attr.Value.Emit(); got != tt.want {
				t.Fatalf("value = %q, want %q", got, tt.want)
			}
		})
	}
}
