// Package main runs a single match and prints the play-by-play.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"paddlesim/internal/config"

	matchcmd "paddlesim/internal/cmd/match"
)

func main() {
	config.LoadDotEnv(config.DefaultEnvPaths...)

	cfg, err := matchcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := matchcmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
