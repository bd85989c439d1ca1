// Package cmd implements the scandelta command line interface.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var version string

var rootCmd = &cobra.Command{
	Use:   "scandelta",
	Short: "Compare SARIF static-analysis reports by weakness category",
	Long: `scandelta compares up to three SARIF reports against each other.

Findings are grouped by rule, rules are mapped to CWE weakness categories
via their tags, and per-category counts, deltas and overlap percentages
are computed across the given reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the CLI version from build flags.
func SetVersion(v string) {
	version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scandelta %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(compareCmd)
}
