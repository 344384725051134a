package autoflow

import (
	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/graph"
	"github.com/mitchellh/mapstructure"
)

// LoopInfo describes a for_loop node as the engine will see it.
type LoopInfo struct {
	NodeID   string     `json:"node_id"`
	Name     string     `json:"name"`
	Count    int        `json:"count"`
	Paths    [][]string `json:"paths"`
	LoopEnds []string   `json:"loop_ends"`
}

// Inspection is a static summary of a graph.
type Inspection struct {
	Nodes       int                     `json:"nodes"`
	Connections int                     `json:"connections"`
	StartNodes  []string                `json:"start_nodes"`
	Loops       []LoopInfo              `json:"loops"`
	Types       map[domain.NodeType]int `json:"types"`
}

// Inspect computes loop bodies and continuations of g without running anything.
// Loop counts that cannot be decoded are shown as the default.
func Inspect(g *graph.Graph) *Inspection {
	in := &Inspection{
		Nodes:       g.Len(),
		Connections: len(g.Connections()),
		StartNodes:  g.StartNodes(),
		Loops:       []LoopInfo{},
		Types:       map[domain.NodeType]int{},
	}

	for _, n := range g.Nodes() {
		in.Types[n.Type]++
		if n.Type != domain.TypeLoopStart {
			continue
		}

		params := domain.LoopStartParams{Count: domain.DefaultLoopCount, Name: domain.DefaultLoopName}
		_ = mapstructure.WeakDecode(n.Params, &params)

		in.Loops = append(in.Loops, LoopInfo{
			NodeID:   n.ID,
			Name:     params.Name,
			Count:    params.Count,
			Paths:    graph.BodyPaths(g, n.ID),
			LoopEnds: graph.LoopEnds(g, n.ID),
		})
	}
	return in
}
