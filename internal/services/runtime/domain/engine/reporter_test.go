package engine

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/palletrun/internal/platform/errors"
)

func TestLogReporterSkipsSuccess(t *testing.T) {
	var buf bytes.Buffer
	r := LogReporter{Logger: log.New(&buf, "", 0)}
	if err := r.ReportExtrinsic(context.Background(), ExtrinsicOutcome{BlockNumber: 1, Caller: "alice", Call: "balances.transfer"}); err != nil {
		t.Fatalf("report: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestLogReporterFormat(t *testing.T) {
	var buf bytes.Buffer
	r := LogReporter{Logger: log.New(&buf, "", 0)}
	outcome := ExtrinsicOutcome{
		BlockNumber: 3,
		Index:       2,
		Caller:      "bob",
		Call:        "proof_of_existence.revoke_claim",
		Err:         apperrors.New(apperrors.CodeClaimNotExists, "claim does not exist"),
	}
	_ = r.ReportExtrinsic(context.Background(), outcome)
	want := "extrinsic error: block=3 extrinsic=2 caller=bob call=proof_of_existence.revoke_claim: claim does not exist\n"
	if buf.String() != want {
		t.Fatalf("log = %q, want %q", buf.String(), want)
	}
}

func TestMultiReporterJoinsErrors(t *testing.T) {
	recorder := &Recorder{}
	boom := errors.New("boom")
	m := MultiReporter{
		ReporterFunc(func(context.Context, ExtrinsicOutcome) error { return boom }),
		nil,
		recorder,
	}
	err := m.ReportExtrinsic(context.Background(), ExtrinsicOutcome{Index: 4})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := recorder.Outcomes(); len(got) != 1 || got[0].Index != 4 {
		t.Fatalf("recorder outcomes = %+v", got)
	}
}

func TestOutcomeCode(t *testing.T) {
	if code := (ExtrinsicOutcome{}).Code(); code != "" {
		t.Fatalf("success code = %q", code)
	}
	failed := ExtrinsicOutcome{Err: errors.New("plain")}
	if failed.Code() != apperrors.CodeUnknown {
		t.Fatalf("plain error code = %q", failed.Code())
	}
	if !strings.Contains(failed.Err.Error(), "plain") {
		t.Fatal("unexpected error text")
	}
}
