package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hgbridge/hgbridge/internal/usecase"
)

func newFetchCmd(factory depsFactory, exitCode *int) *cobra.Command {
	var (
		url     string
		verbose bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch mercurial changesets into the git repository",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			rt, err := initRuntime(cmd.Context(), factory, verbose)
			if err != nil {
				handleCmdError(exitCode, err)
				return
			}
			defer rt.cleanup()

			rt.cfg.DryRun = dryRun
			if url != "" {
				rt.cfg.RemoteURL = url
			}

			result, err := usecase.Fetch(cmd.Context(), rt.cfg, rt.deps, rt.logger)
			if err != nil {
				handleCmdError(exitCode, err)
				return
			}
			fmt.Fprintf(os.Stdout, "fetched %d of %d heads from %s\n",
				len(result.Imported), len(result.Heads), result.RemoteURL)
			*exitCode = exitSuccess
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "mercurial remote URL (overrides configuration)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "query the remote without writing metadata")

	return cmd
}
