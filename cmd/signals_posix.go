//go:build !windows

package cmd

import (
	"os"
	"syscall"
)

// TerminationSignals are the signals chokidar-watch treats as a request to
// stop watching and exit cleanly.
var TerminationSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}
