package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hgbridge/hgbridge/internal/usecase"
)

const (
	exitSuccess      = 0
	exitAbort        = 1
	exitUsageError   = 2
	exitHelperFailed = 3
	exitHelperClosed = 4
	exitLockBusy     = 76
	exitInterrupted  = 130
)

// handleCmdError prints error to stderr and sets exit code. Silent
// aborts set the exit code without printing, the failing subprocess
// already wrote its diagnostics to stderr.
func handleCmdError(exitCode *int, err error) {
	if err == nil {
		*exitCode = exitSuccess
		return
	}
	printCmdError(err)
	*exitCode = mapExitCode(err)
}

func printCmdError(err error) {
	var abort *usecase.AbortError
	if errors.As(err, &abort) && abort.Silent {
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func mapExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	switch {
	case errors.Is(err, usecase.ErrUsage):
		return exitUsageError
	case errors.Is(err, usecase.ErrLockBusy):
		return exitLockBusy
	case errors.Is(err, usecase.ErrInterrupted):
		return exitInterrupted
	case errors.Is(err, usecase.ErrHelperClosed):
		return exitHelperClosed
	case errors.Is(err, usecase.ErrHelperFailed):
		return exitHelperFailed
	default:
		return exitAbort
	}
}
