package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/config"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	rootCmd := newRootCommand(newCLI(cfg))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lockerctl: %v\n", err)
		os.Exit(1)
	}
}
