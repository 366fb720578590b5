package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hgbridge/hgbridge/internal/usecase"
)

func newStatusCmd(factory depsFactory, exitCode *int) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show bridge configuration and repository status",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			rt, err := initRuntime(cmd.Context(), factory, false)
			if err != nil {
				handleCmdError(exitCode, err)
				return
			}
			defer rt.cleanup()

			opts := usecase.StatusOptions{
				HomeDir:    rt.homeDir,
				ConfigPath: usecase.DefaultConfigPath(rt.deps.FileSystem, rt.homeDir),
				Probe:      probe,
			}
			report, err := usecase.Status(cmd.Context(), rt.cfg, opts, rt.deps, rt.logger)
			if err != nil {
				handleCmdError(exitCode, err)
				return
			}
			if _, err := fmt.Fprint(os.Stdout, usecase.FormatStatus(report, shouldUseColor(os.Stdout))); err != nil {
				handleCmdError(exitCode, err)
				return
			}
			*exitCode = exitSuccess
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "spawn the helper to check availability")

	return cmd
}
