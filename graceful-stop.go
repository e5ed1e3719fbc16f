package main

import (
	"os"
	"os/signal"
	"syscall"
)

// gracefulStop runs stop on the first ^C or SIGTERM so the run can still
// write what it has; a second signal exits immediately.
func gracefulStop(stop func()) {

	var gracefulStop = make(chan os.Signal, 2)
	signal.Notify(gracefulStop, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-gracefulStop
		Info.Printf("Caught signal: %+v, finishing up", sig)

		stop()

		sig = <-gracefulStop
		Error.Printf("Caught signal: %+v, exiting", sig)
		os.Exit(1)
	}()
}
