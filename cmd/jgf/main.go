package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/usestring/jsongraph-mcp/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		color.NoColor = true
	}

	code := cli.Execute(ctx, cli.NewCLI(os.Stdout, os.Stderr, nil), os.Args[1:])
	cancel()
	os.Exit(code)
}
