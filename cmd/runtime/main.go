// Package main executes the demo chain and prints the resulting state.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	runtimecmd "github.com/louisbranch/palletrun/internal/cmd/runtime"
	platformcmd "github.com/louisbranch/palletrun/internal/platform/cmd"
	"github.com/louisbranch/palletrun/internal/platform/config"
)

func main() {
	log.SetPrefix(platformcmd.LogPrefix(platformcmd.ServiceRuntime))
	cfg, err := runtimecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runtimecmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
