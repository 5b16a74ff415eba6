// Command validate checks scenario files and draws their scenario graph.
//
// Usage:
//
//	validate check data/scenarios.json            Load strictly and lint the graph
//	validate check --lenient data/scenarios.yaml  Skip invalid scenarios instead of failing
//	validate graph data/scenarios.json > s.dot    Export the scenario graph
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "validate",
		Short:         "Validate help desk scenario files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		newCheckCmd(),
		newGraphCmd(),
	)
	return rootCmd
}
