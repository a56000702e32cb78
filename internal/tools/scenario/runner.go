// Package scenario runs Lua-scripted block sequences against a fresh runtime
// and checks expectations about the resulting state.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/palletrun/internal/services/runtime/domain/engine"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/types"
)

// Config controls scenario execution.
type Config struct {
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
	// Reporters receive every extrinsic outcome in addition to the runner's
	// own recorder.
	Reporters []engine.Reporter
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{Assertions: AssertionStrict}
}

// Result is the runtime a scenario finished with and every outcome it saw.
type Result struct {
	Runtime  *types.Runtime
	Outcomes []engine.ExtrinsicOutcome
	// LoggedExpectations counts expectation failures tolerated in log mode.
	LoggedExpectations int
}

// Failures returns the failed outcomes.
func (r Result) Failures() []engine.ExtrinsicOutcome {
	var failed []engine.ExtrinsicOutcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Runner executes scenarios.
type Runner struct {
	assertions *Assertions
	logger     *log.Logger
	verbose    bool
	reporters  []engine.Reporter
}

// NewRunner prepares a runner.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	return &Runner{
		assertions: &Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		reporters:  cfg.Reporters,
	}
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) (Result, error) {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return Result{}, err
	}
	return NewRunner(cfg).RunScenario(ctx, scenario)
}

// RunScenario executes every step against a new runtime. The returned Result
// is populated even when a step fails.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) (Result, error) {
	if scenario == nil {
		return Result{}, errors.New("scenario is required")
	}
	recorder := &engine.Recorder{}
	opts := []engine.Option{engine.WithLogger(r.logger), engine.WithReporter(recorder)}
	for _, reporter := range r.reporters {
		opts = append(opts, engine.WithReporter(reporter))
	}
	rt, err := types.NewRuntime(opts...)
	if err != nil {
		return Result{}, fmt.Errorf("new runtime: %w", err)
	}

	state := &scenarioState{runtime: rt, recorder: recorder}
	result := func() Result {
		return Result{Runtime: rt, Outcomes: recorder.Outcomes(), LoggedExpectations: r.assertions.Logged()}
	}

	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		if err := r.runStep(ctx, state, step); err != nil {
			return result(), fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("scenario done: %s", scenario.Name)
	return result(), nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
