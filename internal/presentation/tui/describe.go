package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/autoflow"
	"github.com/aretw0/autoflow/pkg/graph"
)

// Describe formats a markdown overview of g: every node with its parameters,
// followed by the loop bodies the engine would repeat.
func Describe(name string, g *graph.Graph) string {
	in := autoflow.Inspect(g)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "- Nodes: %d\n", in.Nodes)
	fmt.Fprintf(&b, "- Connections: %d\n", in.Connections)
	fmt.Fprintf(&b, "- Start: %s\n", joinOrDash(in.StartNodes))

	b.WriteString("\n## Nodes\n\n| Id | Type | Params | Next |\n|---|---|---|---|\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			n.ID, n.Type, escapeCell(formatParams(n.Params)), joinOrDash(g.Successors(n.ID)))
	}

	if len(in.Loops) > 0 {
		b.WriteString("\n## Loops\n")
		for _, l := range in.Loops {
			fmt.Fprintf(&b, "\n### %s (%s) x%d\n\n", l.Name, l.NodeID, l.Count)
			if len(l.Paths) == 0 {
				b.WriteString("- (empty body)\n")
			}
			for _, p := range l.Paths {
				fmt.Fprintf(&b, "- %s\n", strings.Join(p, " → "))
			}
			fmt.Fprintf(&b, "\nThen: %s\n", joinOrDash(l.LoopEnds))
		}
	}
	return b.String()
}

func formatParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, ", ")
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
