package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hgbridge/hgbridge/internal/usecase"
)

func newResolveCmd(factory depsFactory, exitCode *int) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "resolve <revision>",
		Short: "Translate a revision between mercurial and git",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt, err := initRuntime(cmd.Context(), factory, verbose)
			if err != nil {
				handleCmdError(exitCode, err)
				return
			}
			defer rt.cleanup()

			result, err := usecase.Resolve(cmd.Context(), rt.cfg, rt.deps, rt.logger, args[0])
			if err != nil {
				handleCmdError(exitCode, err)
				return
			}
			fmt.Fprintln(os.Stdout, result.Resolved)
			*exitCode = exitSuccess
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	return cmd
}
