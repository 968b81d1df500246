package main

import (
	"github.com/spf13/cobra"

	"github.com/awaken-dev/awaken/internal/buildinfo"
)

func newRootCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:          "awaken-api",
		Short:        "awaken API server",
		Long:         "awaken-api serves the shared awaken index greeting over HTTP.\nWithout a subcommand it behaves like \"serve\".",
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	opts.bind(cmd)

	cmd.AddCommand(newServeCmd(), newVersionCmd(), newSmokeCmd())
	return cmd
}
