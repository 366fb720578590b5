// Package app wires real adapters into the dependency set consumed by
// use cases.
package app

import (
	"log/slog"

	"github.com/hgbridge/hgbridge/internal/adapters/config"
	"github.com/hgbridge/hgbridge/internal/adapters/filesystem"
	"github.com/hgbridge/hgbridge/internal/adapters/git"
	"github.com/hgbridge/hgbridge/internal/adapters/helper"
	"github.com/hgbridge/hgbridge/internal/adapters/lock"
	"github.com/hgbridge/hgbridge/internal/adapters/process"
	"github.com/hgbridge/hgbridge/internal/usecase"
)

// NewDefaultDependencies creates dependencies with real adapters. The
// helper adapter is built from cfg since the helper command and its
// arguments come from configuration.
func NewDefaultDependencies(logger *slog.Logger, cfg usecase.Config) *usecase.Dependencies {
	if logger == nil {
		panic("default dependencies require logger")
	}

	command := cfg.HelperCommand
	if command == "" {
		command = usecase.DefaultHelperCommand
	}

	return &usecase.Dependencies{
		FileSystem: filesystem.New(logger),
		Config:     config.New(logger),
		Git:        git.New(logger),
		Helper:     helper.New(logger, command, cfg.HelperArgs),
		Lock:       lock.New(logger),
		Process:    process.New(logger),
	}
}
