package main

import (
	"context"
	"exzly/internal/app/consumers"
	"exzly/internal/app/deps"
	"exzly/internal/core/domain/logging"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	deps, shutdownDeps := deps.InitMailerDeps()
	defer shutdownDeps()

	shutdownConsumers := consumers.InitConsumers(deps)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-stopCh
	deps.Logger.Info(context.Background(), "Stopping mailer.", logging.Entry("signal", sig.String()))
	shutdownConsumers()
}
