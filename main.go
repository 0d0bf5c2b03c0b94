package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kiwi-automation/kiwi/backend"
	"github.com/kiwi-automation/kiwi/cli"
)

func main() {
	// track backend connections so they are closed on exit
	registry := backend.NewRegistry()
	cli.SetBackendRegistry(registry)

	// setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// run command in goroutine
	done := make(chan error, 1)
	go func() {
		done <- cli.Execute()
	}()

	// wait for command completion or signal
	select {
	case <-sigChan:
		registry.CloseAll()
		os.Exit(0)
	case err := <-done:
		registry.CloseAll()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
