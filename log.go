package main

import (
	"io"
	"log"
	"os"
)

const logFlags = log.Ldate | log.Lmicroseconds | log.LUTC

// Usable before logInit runs, e.g. from tests
var (
	Debug = log.New(io.Discard, "DEB: ", logFlags)
	Info  = log.New(os.Stdout, "INF: ", logFlags)
	Error = log.New(os.Stderr, "ERR: ", logFlags)
)

func logInit(verbose bool) {

	debugHandle := io.Discard
	if verbose {
		debugHandle = os.Stderr
	}

	Debug.SetOutput(debugHandle)

	// Stdout carries the statistics, so progress goes to stderr
	Info.SetOutput(os.Stderr)
	Error.SetOutput(os.Stderr)

	// no condition here, as you'll only see the message if
	// Verbose logging really is enabled!
	Debug.Printf("Verbose logging enabled")

}
