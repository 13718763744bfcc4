package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doriantaylor/go-params-registry/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version.Summary())
			fmt.Fprintf(cmd.OutOrStdout(), "  branch:     %s\n", version.Branch)
			fmt.Fprintf(cmd.OutOrStdout(), "  build user: %s\n", version.BuildUser)
			fmt.Fprintf(cmd.OutOrStdout(), "  build date: %s\n", version.BuildDate)

			return nil
		},
	}
}
