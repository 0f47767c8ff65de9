package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bgricker/buildharness/internal/config"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitConfigError = 2
)

// errTestsFailed is returned after a run whose summary already reported failures.
var errTestsFailed = errors.New("one or more tests failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode maps a command error to the process status, printing it unless the
// summary already said everything.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errTestsFailed):
		return exitFailure
	case errors.Is(err, config.ErrInvalid):
		fmt.Fprintf(stderr, "harness: %v\n", err)
		return exitConfigError
	default:
		fmt.Fprintf(stderr, "harness: %v\n", err)
		return exitFailure
	}
}
