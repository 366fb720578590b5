package main

import (
	"github.com/spf13/cobra"

	"github.com/hgbridge/hgbridge/internal/usecase"
)

func newSetupCmd(factory depsFactory, exitCode *int) *cobra.Command {
	var (
		url    string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure the current repository's mercurial remote",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			logger := setupLogger(false)
			deps := factory(logger, usecase.Config{})
			opts := usecase.SetupOptions{
				RemoteURL: url,
				DryRun:    dryRun,
			}
			handleCmdError(exitCode, usecase.Setup(cmd.Context(), opts, deps, logger))
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "mercurial remote URL for this repository")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan changes without writing to disk")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
