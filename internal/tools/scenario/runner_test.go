package scenario

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/palletrun/internal/platform/errors"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/engine"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/primitives"
)

func testConfig(mode AssertionMode) (Config, *bytes.Buffer) {
	var logs bytes.Buffer
	return Config{Assertions: mode, Logger: log.New(&logs, "", 0)}, &logs
}

func mustLoad(t *testing.T, source string) *Scenario {
	t.Helper()
	scenario, err := LoadScenario("test", []byte(source))
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	return scenario
}

func TestRunDefaultPasses(t *testing.T) {
	cfg, logs := testConfig(AssertionStrict)
	result, err := RunDefault(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run default: %v\n%s", err, logs.String())
	}
	if result.Runtime.BlockNumber() != 3 {
		t.Fatalf("block number = %d", result.Runtime.BlockNumber())
	}
	if got := result.Runtime.Balance("Kurniadi"); got != primitives.NewU256(130000) {
		t.Fatalf("Kurniadi = %s", got)
	}
	failures := result.Failures()
	if len(failures) != 1 || failures[0].Code() != apperrors.CodeClaimAlreadyExists {
		t.Fatalf("unexpected failures %+v", failures)
	}
	if !strings.Contains(logs.String(), "extrinsic error: block=2 extrinsic=1 caller=Ahmad call=proof_of_existence.create_claim") {
		t.Fatalf("expected failure to be logged, got %q", logs.String())
	}
}

func TestRunScenarioStrictFailsOnExpectation(t *testing.T) {
	cfg, _ := testConfig(AssertionStrict)
	scenario := mustLoad(t, `local s = Scenario.new("strict")
s:seed("alice", 10)
s:expect_balance("alice", 11)
s:expect_nonce("alice", 0)
return s`)
	result, err := NewRunner(cfg).RunScenario(context.Background(), scenario)
	if err == nil || !strings.Contains(err.Error(), "step 2 (expect_balance)") {
		t.Fatalf("expected expect_balance failure, got %v", err)
	}
	if result.Runtime == nil {
		t.Fatal("expected partial result")
	}
}

func TestRunScenarioLogOnlyContinues(t *testing.T) {
	cfg, logs := testConfig(AssertionLogOnly)
	scenario := mustLoad(t, `local s = Scenario.new("log")
s:seed("alice", 10)
s:expect_balance("alice", 11)
s:expect_claim("doc", "alice")
s:expect_nonce("alice", 0)
return s`)
	result, err := NewRunner(cfg).RunScenario(context.Background(), scenario)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.LoggedExpectations != 2 {
		t.Fatalf("logged expectations = %d, want 2", result.LoggedExpectations)
	}
	if strings.Count(logs.String(), "expectation failed:") != 2 {
		t.Fatalf("unexpected logs %q", logs.String())
	}
}

func TestRunScenarioHeaderMismatch(t *testing.T) {
	cfg, _ := testConfig(AssertionStrict)
	scenario := mustLoad(t, `local s = Scenario.new("mismatch")
s:seed("alice", 100)
s:block()
s:block(5):transfer("alice", "bob", 10):expect_rejected()
s:expect_block_number(2)
s:expect_nonce("alice", 0)
s:block():transfer("alice", "bob", 10)
s:expect_block_number(3)
s:expect_balance("bob", 10)
return s`)
	if _, err := NewRunner(cfg).RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunScenarioUnexpectedRejection(t *testing.T) {
	cfg, _ := testConfig(AssertionStrict)
	scenario := mustLoad(t, `local s = Scenario.new()
s:block(2)
return s`)
	_, err := NewRunner(cfg).RunScenario(context.Background(), scenario)
	if err == nil || !strings.Contains(err.Error(), "block number mismatch") {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}

func TestRunScenarioMissingRejection(t *testing.T) {
	cfg, _ := testConfig(AssertionStrict)
	scenario := mustLoad(t, `local s = Scenario.new()
s:block(1):expect_rejected()
return s`)
	_, err := NewRunner(cfg).RunScenario(context.Background(), scenario)
	if err == nil || !strings.Contains(err.Error(), "expected rejection") {
		t.Fatalf("expected rejection error, got %v", err)
	}
}

func TestRunScenarioFailuresAndNonces(t *testing.T) {
	cfg, _ := testConfig(AssertionStrict)
	scenario := mustLoad(t, `local s = Scenario.new("failures")
s:seed("alice", 100)
s:block()
  :transfer("alice", "bob", 150)
  :transfer("alice", "bob", 40)
  :call("carol", "staking.bond")
s:block()
  :create_claim("alice", "x")
  :revoke_claim("bob", "x")
  :revoke_claim("carol", "y")
s:expect_failure({block = 1, extrinsic = 0, code = "INSUFFICIENT_BALANCE"})
s:expect_failure({block = 1, extrinsic = 2, code = "UNROUTABLE_CALL"})
s:expect_failure({block = 2, extrinsic = 1, code = "NOT_CLAIM_OWNER"})
s:expect_failure({block = 2, extrinsic = 2})
s:expect_nonce("alice", 3)
s:expect_nonce("bob", 1)
s:expect_nonce("carol", 2)
s:expect_balance("bob", 40)
s:expect_total_issuance(100)
return s`)
	result, err := NewRunner(cfg).RunScenario(context.Background(), scenario)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Outcomes) != 6 {
		t.Fatalf("outcomes = %d, want 6", len(result.Outcomes))
	}
}

func TestRunScenarioExpectFailureMismatch(t *testing.T) {
	cfg, _ := testConfig(AssertionStrict)
	scenario := mustLoad(t, `local s = Scenario.new()
s:block():create_claim("alice", "x")
s:expect_failure({block = 1, extrinsic = 0})
return s`)
	_, err := NewRunner(cfg).RunScenario(context.Background(), scenario)
	if err == nil || !strings.Contains(err.Error(), "did not fail") {
		t.Fatalf("expected did-not-fail error, got %v", err)
	}
}

func TestRunScenarioForwardsReporters(t *testing.T) {
	cfg, _ := testConfig(AssertionStrict)
	extra := &engine.Recorder{}
	cfg.Reporters = []engine.Reporter{extra}
	scenario := mustLoad(t, `local s = Scenario.new()
s:block():create_claim("alice", "x")
return s`)
	if _, err := NewRunner(cfg).RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(extra.Outcomes()) != 1 {
		t.Fatalf("extra reporter saw %d outcomes", len(extra.Outcomes()))
	}
}

func TestRunScenarioVerboseLogsSteps(t *testing.T) {
	cfg, logs := testConfig(AssertionStrict)
	cfg.Verbose = true
	scenario := mustLoad(t, `local s = Scenario.new("verbose")
s:block()
return s`)
	if _, err := NewRunner(cfg).RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"scenario start: verbose (1 steps)", "step 1/1 start: block", "scenario done: verbose"} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("expected %q in logs %q", want, logs.String())
		}
	}
}

func TestRunScenarioRequiresScenario(t *testing.T) {
	if _, err := NewRunner(DefaultConfig()).RunScenario(context.Background(), nil); err == nil {
		t.Fatal("expected nil scenario to fail")
	}
}

func TestRunFile(t *testing.T) {
	path := writeScenarioFixture(t, `local s = Scenario.new()
s:seed("alice", 5)
s:expect_balance("alice", 5)
return s`)
	cfg, _ := testConfig(AssertionStrict)
	if _, err := RunFile(context.Background(), cfg, path); err != nil {
		t.Fatalf("run file: %v", err)
	}
	if _, err := RunFile(context.Background(), cfg, path+".missing"); err == nil {
		t.Fatal("expected missing file to fail")
	}
}

func TestRunScenarioKeepsAmountsAbove2To53(t *testing.T) {
	cfg, logs := testConfig(AssertionStrict)
	scenario := mustLoad(t, `local s = Scenario.new("exact")
s:seed("alice", "9007199254740993")
s:block(1):transfer("alice", "bob", "9007199254740993")
s:expect_balance("bob", "9007199254740993")
s:expect_balance("alice", 0)
return s`)
	result, err := NewRunner(cfg).RunScenario(context.Background(), scenario)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, logs.String())
	}
	if got := result.Runtime.Balance("bob").String(); got != "9007199254740993" {
		t.Fatalf("bob = %s", got)
	}
}
