package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// setupSignalHandler sets up signal handling for graceful shutdown
// Returns a channel that will be closed when a shutdown signal is received
func setupSignalHandler() <-chan struct{} {
	shutdown := make(chan struct{})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		fmt.Fprintf(os.Stderr, "\nReceived signal: %v, cancelling scan...\n", sig)
		close(shutdown)
		// a second signal falls through to the default handler and exits
		signal.Stop(sigChan)
	}()

	return shutdown
}
