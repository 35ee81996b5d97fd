package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Populated at build time via -ldflags.
var (
	version   = "dev"
	gitCommit = ""
	buildDate = ""
)

func newVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:           "version",
		Short:         "Print the conflate version information",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n", version)
			if gitCommit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "GitCommit: %s\n", gitCommit)
			}
			if buildDate != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "BuildDate: %s\n", buildDate)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "GoVersion: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print just the version number")
	return cmd
}
