// Command exonascope turns case materials into a draft defense motion.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/exonascope/exonascope-cli/internal/adapters/driving/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetBootstrap(wire)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
