package scenario

import (
	"context"
	"embed"
	"fmt"
)

//go:embed scenarios/*.lua
var builtinFS embed.FS

// DefaultScenarioName names the scenario run when no file is given.
const DefaultScenarioName = "default"

// LoadBuiltinScenario loads an embedded scenario by name.
func LoadBuiltinScenario(name string) (*Scenario, error) {
	source, err := builtinFS.ReadFile("scenarios/" + name + ".lua")
	if err != nil {
		return nil, fmt.Errorf("builtin scenario %q: %w", name, err)
	}
	return LoadScenario(name, source)
}

// RunDefault runs the embedded default scenario.
func RunDefault(ctx context.Context, cfg Config) (Result, error) {
	scenario, err := LoadBuiltinScenario(DefaultScenarioName)
	if err != nil {
		return Result{}, err
	}
	return NewRunner(cfg).RunScenario(ctx, scenario)
}
