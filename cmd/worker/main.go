// Command worker consumes delivery lifecycle events from Kafka and appends
// them to the audit log. It needs KAFKA_BROKERS and refuses to start without it.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"parcelbee/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	container := app.MustBuildWorkerContainer(ctx)
	app.NewWorkerRunner().MustRun(container)
	log.Printf("audit worker stopped: %v", context.Cause(ctx))
}
