// Package runtime implements the runtime command: it seeds genesis balances,
// executes the demo chain and prints the final state.
package runtime

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	platformcmd "github.com/louisbranch/palletrun/internal/platform/cmd"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/engine"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/primitives"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/types"
	receipts "github.com/louisbranch/palletrun/internal/services/runtime/storage/sqlite"
	"github.com/louisbranch/palletrun/internal/tools/scenario"
)

// Config holds runtime command configuration.
type Config struct {
	ReceiptsDB string `env:"RECEIPTS_DB"`
	// RunID tags journaled receipts. A random ID is used when empty.
	RunID  string `env:"RUN_ID"`
	Locale string `env:"LOCALE"      envDefault:"en-US"`
}

// ParseConfig parses env and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	err := platformcmd.ParseConfigFromArgs(&cfg, fs, args, func(fs *flag.FlagSet, cfg *Config) {
		fs.StringVar(&cfg.ReceiptsDB, "receipts-db", cfg.ReceiptsDB, "sqlite path for the extrinsic receipt journal")
		fs.StringVar(&cfg.RunID, "run-id", cfg.RunID, "run identifier for journaled receipts")
		fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for balances and error messages")
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Genesis is the balance set before the first block.
var Genesis = map[types.AccountID]uint64{
	"Kurniadi": 200000,
}

// DemoChain returns the blocks the command executes. Block 2 carries a claim
// that collides with an earlier one in the same block.
func DemoChain() []types.Block {
	const document = "Hello, world!"
	amount := primitives.NewU256
	return []types.Block{
		types.NewBlock(1,
			types.Extrinsic{Caller: "Kurniadi", Call: types.Transfer{To: "Ahmad", Amount: amount(50000)}},
			types.Extrinsic{Caller: "Kurniadi", Call: types.Transfer{To: "Wijaya", Amount: amount(20000)}},
		),
		types.NewBlock(2,
			types.Extrinsic{Caller: "Kurniadi", Call: types.CreateClaim{Claim: document}},
			types.Extrinsic{Caller: "Ahmad", Call: types.CreateClaim{Claim: document}},
		),
		types.NewBlock(3,
			types.Extrinsic{Caller: "Kurniadi", Call: types.RevokeClaim{Claim: document}},
			types.Extrinsic{Caller: "Ahmad", Call: types.CreateClaim{Claim: document}},
		),
	}
}

// Run executes the runtime command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceRuntime, func(ctx context.Context) error {
		logger := log.New(errOut, platformcmd.LogPrefix(platformcmd.ServiceRuntime), 0)
		recorder := &engine.Recorder{}
		opts := []engine.Option{engine.WithLogger(logger), engine.WithReporter(recorder)}
		if cfg.ReceiptsDB != "" {
			store, err := receipts.Open(cfg.ReceiptsDB, receipts.WithRunID(cfg.RunID))
			if err != nil {
				return fmt.Errorf("open receipts: %w", err)
			}
			defer store.Close()
			opts = append(opts, engine.WithReporter(store))
			logger.Printf("journaling receipts to %s (run %s)", cfg.ReceiptsDB, store.RunID())
		}

		rt, err := types.NewRuntime(opts...)
		if err != nil {
			return fmt.Errorf("new runtime: %w", err)
		}
		for account, balance := range Genesis {
			rt.Balances().SetBalance(account, primitives.NewU256(balance))
		}
		for _, b := range DemoChain() {
			if err := rt.ExecuteBlock(ctx, b); err != nil {
				return fmt.Errorf("execute block %d: %w", b.Header.BlockNumber, err)
			}
		}

		return scenario.WriteSummary(out, scenario.Result{Runtime: rt, Outcomes: recorder.Outcomes()}, cfg.Locale)
	})
}
