// File: cmd/pixelpilot/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/nullmantle/pixelpilot/cmd"
	"github.com/nullmantle/pixelpilot/internal/observability"
)

func main() {
	// Graceful shutdown on SIGINT/SIGTERM: the context unwinds the runner,
	// listener and control plane together.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		os.Exit(1)
	}
}
