package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hgbridge/hgbridge/internal/usecase"
)

func newInitCmd(factory depsFactory, exitCode *int) *cobra.Command {
	var (
		url    string
		force  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the global hgbridge configuration file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			logger := setupLogger(false)
			deps := factory(logger, usecase.Config{})
			homeDir, err := os.UserHomeDir()
			if err != nil {
				handleCmdError(exitCode, usecase.Abortf("cannot resolve home directory: %v", err))
				return
			}
			opts := usecase.InitOptions{
				HomeDir:   homeDir,
				RemoteURL: url,
				Force:     force,
				DryRun:    dryRun,
			}
			handleCmdError(exitCode, usecase.Init(cmd.Context(), opts, deps, logger))
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "default mercurial remote URL")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan changes without writing to disk")

	return cmd
}
