package scenario

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseAssertionMode(t *testing.T) {
	tests := []struct {
		in      string
		want    AssertionMode
		wantErr bool
	}{
		{in: "", want: AssertionStrict},
		{in: "strict", want: AssertionStrict},
		{in: " LOG ", want: AssertionLogOnly},
		{in: "log_only", want: AssertionLogOnly},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseAssertionMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseAssertionMode(%q) error = %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseAssertionMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAssertionsModes(t *testing.T) {
	var buf bytes.Buffer
	logOnly := &Assertions{Mode: AssertionLogOnly, Logger: log.New(&buf, "", 0)}
	if err := logOnly.Assertf("x = %d", 1); err != nil {
		t.Fatalf("log-only assert returned %v", err)
	}
	if logOnly.Logged() != 1 || !strings.Contains(buf.String(), "expectation failed: x = 1") {
		t.Fatalf("unexpected log state %d %q", logOnly.Logged(), buf.String())
	}
	if err := logOnly.Failf("broken"); err == nil {
		t.Fatal("Failf must always return an error")
	}

	strict := &Assertions{Mode: AssertionStrict}
	if err := strict.Assertf("x = %d", 2); err == nil || err.Error() != "expectation failed: x = 2" {
		t.Fatalf("strict assert = %v", err)
	}
	if strict.Logged() != 0 {
		t.Fatal("strict mode should not count logged expectations")
	}
	if AssertionLogOnly.String() != "log" || AssertionStrict.String() != "strict" {
		t.Fatal("unexpected mode names")
	}
}
