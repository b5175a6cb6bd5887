// Package cmd implements the sampler-cli commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	server string
	user   string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:           "sampler-cli",
		Short:         "A CLI client for the MotifSampler job service",
		Long:          `A command-line interface for importing sequence sets, submitting motif discovery jobs, watching their progress and parsing MotifSampler output locally.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.server, "server", envOr("SAMPLER_SERVER", "http://localhost:8081"), "job service base URL")
	rootCmd.PersistentFlags().StringVar(&opts.user, "user", envOr("SAMPLER_USER", ""), "user id sent with each request")

	rootCmd.AddCommand(newJobCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newMotifSetCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newParseCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
