package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// watchSignals cancels the session on an interrupt and returns when either
// a signal arrives or ctx is done.
func watchSignals(ctx context.Context, logger *log.Logger, cancel context.CancelCauseFunc) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down gracefully", "signal", sig.String())
		cancel(fmt.Errorf("received %s", sig))
	case <-ctx.Done():
	}
	return nil
}
