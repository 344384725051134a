package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/autoflow/pkg/domain"
	wf "github.com/aretw0/autoflow/pkg/graph"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	Dispatched []string
	Failed     []string
}

// OverlayFromReport marks the nodes a run dispatched and the ones that failed.
func OverlayFromReport(report *domain.RunReport) *GraphOverlay {
	o := &GraphOverlay{Dispatched: report.Dispatched}
	for _, f := range report.Failures {
		o.Failed = append(o.Failed, f.NodeID)
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of g, nodes in insertion order.
// It applies semantic styling:
// - Start node: ((Circle))
// - for_loop: {{Hexagon}}
// - loop_end: ([Stadium])
// - Actions: [Rectangle] labelled with their main parameter
func GenerateMermaid(g *wf.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	starts := make(map[string]bool)
	for _, id := range g.StartNodes() {
		starts[id] = true
	}

	for _, node := range g.Nodes() {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.Type == domain.TypeLoopStart:
			opener, closer = "{{", "}}"
		case node.Type == domain.TypeLoopEnd:
			opener, closer = "([", "])"
		case starts[node.ID]:
			opener, closer = "((", "))"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label(node), closer))
	}

	for _, c := range g.Connections() {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(c.From), sanitizeMermaidID(c.To)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Dispatched {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		failed := make(map[string]bool)
		for _, id := range overlay.Failed {
			safeID := sanitizeMermaidID(id)
			if !failed[safeID] {
				failed[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s failed;\n", safeID))
			}
		}
	}

	return sb.String()
}

func label(node *domain.Node) string {
	detail := ""
	switch node.Type {
	case domain.TypeClickLeft, domain.TypeDoubleClick, domain.TypeClickRight:
		detail = param(node, domain.ParamImg)
	case domain.TypeInputText:
		detail = param(node, domain.ParamText)
	case domain.TypeWait:
		if s := param(node, domain.ParamSeconds); s != "" {
			detail = s + "s"
		}
	case domain.TypeScroll:
		detail = param(node, domain.ParamAmount)
	case domain.TypeHotkey:
		detail = param(node, domain.ParamKeys)
	case domain.TypeLoopStart:
		name, count := param(node, domain.ParamLoopName), param(node, domain.ParamLoopCount)
		detail = strings.TrimSpace(name + " x" + count)
	case domain.TypeLoopEnd:
		detail = param(node, domain.ParamEndName)
	}

	text := fmt.Sprintf("%s <br/> %s", node.ID, node.Type)
	if detail != "" {
		text += ": " + detail
	}
	return strings.ReplaceAll(text, "\"", "'")
}

func param(node *domain.Node, key string) string {
	v, ok := node.Params[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
