// Package cli provides the command-line interface for the lakerunner
// conformance runner.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lakerunner/internal/cli/commands"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lakerunner",
		Short: "Lakerunner - table reader conformance runner",
		Long: `Lakerunner verifies a table reader engine implementation against
reference datasets.

Each conformance fixture pairs a table with the dataset a correct reader
must produce. The runner scans every fixture through the engine under
test, canonicalizes both result sets, and reports exactly which invariant
broke when they differ.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./lakerunner.yaml)")
	rootCmd.PersistentFlags().String("output-format", "", "Report format: table, json")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		commands.NewVerifyCommand(),
		commands.NewVersionCommand(Version, BuildDate, GitCommit),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
