// -- cmd/promoshot/main.go --
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/promoshot/promoshot-cli/cmd"
	"github.com/promoshot/promoshot-cli/internal/observability"
)

// Allows mocking os.Exit in tests.
var osExit = os.Exit

func main() {
	// A context canceled on SIGINT/SIGTERM so an interrupted run still
	// tears the browser process down.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := cmd.Execute(ctx)

	stop()
	observability.Sync()
	osExit(code)
}
