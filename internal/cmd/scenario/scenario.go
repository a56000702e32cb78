// Package scenario implements the scenario command: it runs a Lua scenario
// against a fresh runtime and checks its expectations.
package scenario

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	platformcmd "github.com/louisbranch/palletrun/internal/platform/cmd"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/engine"
	receipts "github.com/louisbranch/palletrun/internal/services/runtime/storage/sqlite"
	"github.com/louisbranch/palletrun/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario   string `env:"SCENARIO_FILE"`
	Assertions bool   `env:"SCENARIO_ASSERT"  envDefault:"true"`
	Verbose    bool   `env:"SCENARIO_VERBOSE"`
	ReceiptsDB string `env:"RECEIPTS_DB"`
	Locale     string `env:"LOCALE"           envDefault:"en-US"`
}

// ParseConfig parses env and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	err := platformcmd.ParseConfigFromArgs(&cfg, fs, args, func(fs *flag.FlagSet, cfg *Config) {
		fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file (default: embedded demo)")
		fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
		fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
		fs.StringVar(&cfg.ReceiptsDB, "receipts-db", cfg.ReceiptsDB, "sqlite path for the extrinsic receipt journal")
		fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for balances and error messages")
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceScenario, func(ctx context.Context) error {
		mode := scenario.AssertionStrict
		if !cfg.Assertions {
			mode = scenario.AssertionLogOnly
		}
		runCfg := scenario.Config{
			Assertions: mode,
			Verbose:    cfg.Verbose,
			Logger:     log.New(errOut, platformcmd.LogPrefix(platformcmd.ServiceScenario), 0),
		}
		if cfg.ReceiptsDB != "" {
			store, err := receipts.Open(cfg.ReceiptsDB)
			if err != nil {
				return fmt.Errorf("open receipts: %w", err)
			}
			defer store.Close()
			runCfg.Reporters = []engine.Reporter{store}
			runCfg.Logger.Printf("journaling receipts to %s (run %s)", cfg.ReceiptsDB, store.RunID())
		}

		var (
			result scenario.Result
			err    error
		)
		if cfg.Scenario == "" {
			result, err = scenario.RunDefault(ctx, runCfg)
		} else {
			result, err = scenario.RunFile(ctx, runCfg, cfg.Scenario)
		}
		if result.Runtime != nil {
			if werr := scenario.WriteSummary(out, result, cfg.Locale); werr != nil && err == nil {
				err = werr
			}
		}
		return err
	})
}
