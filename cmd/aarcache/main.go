// Package main is the entry point for the aarcache CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pge-bw/aarcache/cmd/aarcache/commands"
	"github.com/pge-bw/aarcache/internal/adapters/logger"
)

func main() {
	if err := run(); err != nil {
		// zerr prints a pretty error report with stack trace and metadata when using %+v
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := commands.New(logger.New())
	return cli.Execute(ctx)
}
