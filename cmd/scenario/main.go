// Package main provides a CLI for running Lua scenario scripts.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	scenariocmd "github.com/louisbranch/palletrun/internal/cmd/scenario"
	platformcmd "github.com/louisbranch/palletrun/internal/platform/cmd"
	"github.com/louisbranch/palletrun/internal/platform/config"
)

func main() {
	log.SetPrefix(platformcmd.LogPrefix(platformcmd.ServiceScenario))
	cfg, err := scenariocmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scenariocmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
