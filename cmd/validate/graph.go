package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/graph"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/source"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

func newGraphCmd() *cobra.Command {
	var (
		entryIDs   []string
		format     string
		outputFile string
		lenient    bool
	)

	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Export the scenario graph as DOT or Mermaid",
		Long: `Graph draws one node per scenario and one edge per choice. Correct
choices are green, entry scenarios are bold, and next_id references that do
not resolve are drawn as dashed red nodes.

Examples:
    validate graph data/scenarios.json | dot -Tsvg > scenarios.svg
    validate graph data/scenarios.json --format mermaid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := source.LoadStore(args[0], scenario.LoadOptions{Lenient: lenient})
			if err != nil {
				return err
			}
			out, err := graph.Render(store, graph.Options{
				EntryIDs: entryIDs,
				Format:   graph.Format(format),
			})
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			_, err = fmt.Fprintln(w, out)
			return err
		},
	}

	cmd.Flags().StringSliceVar(&entryIDs, "entry", []string{"1", "4"}, "Entry scenario ids to highlight")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Skip invalid scenarios instead of failing the load")

	return cmd
}
