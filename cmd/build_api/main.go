// Package main is the entrypoint for build_api.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/morezero/build-api/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		log.Fatalf("build_api: %v", err)
	}
}
