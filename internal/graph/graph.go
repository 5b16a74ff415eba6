// Package graph renders a scenario store as a directed graph.
package graph

import (
	"fmt"
	"strings"

	"github.com/emicklei/dot"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

const endNode = "END"

// Format specifies the output format.
type Format string

const (
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
)

// Options configures rendering.
type Options struct {
	EntryIDs []string
	Format   Format
	// MaxLabel truncates scenario descriptions in node labels. Zero keeps 40.
	MaxLabel int
}

// Render draws every scenario as a node and every choice as an edge to its
// next scenario, or to END when the choice finishes the session.
func Render(store *scenario.Store, opts Options) (string, error) {
	g := Build(store, opts)
	switch opts.Format {
	case "", FormatDOT:
		return g.String(), nil
	case FormatMermaid:
		return dot.MermaidGraph(g, dot.MermaidTopToBottom), nil
	default:
		return "", fmt.Errorf("unsupported graph format %q (dot, mermaid)", opts.Format)
	}
}

// Build creates the dot.Graph for store.
func Build(store *scenario.Store, opts Options) *dot.Graph {
	maxLabel := opts.MaxLabel
	if maxLabel <= 0 {
		maxLabel = 40
	}
	entries := make(map[string]bool, len(opts.EntryIDs))
	for _, id := range opts.EntryIDs {
		entries[id] = true
	}

	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "LR")
	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	all := store.All()
	for _, sc := range all {
		n := graph.Node(sc.ID)
		n.Label(sc.ID + "\\n" + truncate(sc.Description, maxLabel))
		if entries[sc.ID] {
			n.Attr("style", "bold")
			n.Attr("color", "blue")
		}
	}

	var end dot.Node
	endCreated := false
	for _, sc := range all {
		from := graph.Node(sc.ID)
		for _, c := range sc.Choices {
			var to dot.Node
			switch {
			case !c.HasNext():
				if !endCreated {
					end = graph.Node(endNode)
					end.Attr("shape", "doublecircle")
					endCreated = true
				}
				to = end
			case store.Has(*c.NextID):
				to = graph.Node(*c.NextID)
			default:
				to = graph.Node(*c.NextID)
				to.Label("missing: " + *c.NextID)
				to.Attr("style", "dashed")
				to.Attr("color", "red")
			}

			e := graph.Edge(from, to, truncate(c.Text, maxLabel))
			if c.IsCorrect {
				e.Attr("color", "darkgreen")
			} else {
				e.Attr("color", "gray")
				e.Attr("style", "dashed")
			}
		}
	}
	return graph
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
