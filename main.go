// main is the entry point for the timeline CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/timeline/cmd"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer iocache.CloseCaching()

	if err := cmd.Execute(ctx); err != nil {
		iocache.CloseCaching()
		contract.LogFatal("Cannot run timeline", err)
	}
	if err := cmd.StopProfiling(); err != nil {
		contract.LogWarn("Cannot stop profiling", err)
	}
}
