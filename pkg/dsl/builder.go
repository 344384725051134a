package dsl

import (
	"fmt"

	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/graph"
)

// Horizontal spacing used for nodes without an explicit position.
const autoLayoutStep = 150

// Builder manages the graph construction.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a node of type t.
// If the node already exists, it returns the existing builder unchanged.
func (b *Builder) Add(id string, t domain.NodeType) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		id:      id,
		typ:     t,
		x:       len(b.order) * autoLayoutStep,
		y:       100,
		params:  map[string]any{},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles the nodes, in the order they were added, into a graph.
// Unlike the graph API, which ignores bad edits, Build reports unknown types,
// unknown targets and self-connections as errors.
func (b *Builder) Build() (*graph.Graph, error) {
	g := graph.New()
	maxID := 0

	for _, id := range b.order {
		nb := b.nodes[id]
		if !g.AddNode(id, nb.typ, nb.x, nb.y) {
			return nil, fmt.Errorf("node %s: %w", id, &domain.UnknownNodeTypeError{Type: string(nb.typ)})
		}

		params := domain.DefaultParams(nb.typ)
		for k, v := range nb.params {
			params[k] = v
		}
		g.SetParams(id, params)

		if n, err := graph.ParseNodeID(id); err == nil {
			maxID = max(maxID, n)
		}
	}

	for _, id := range b.order {
		for _, target := range b.nodes[id].targets {
			if _, ok := b.nodes[target]; !ok {
				return nil, fmt.Errorf("node %s: unknown target %q", id, target)
			}
			if target == id {
				return nil, fmt.Errorf("node %s: cannot connect to itself", id)
			}
			g.AddConnection(id, target)
		}
	}

	g.SetNextID(maxID)
	return g, nil
}

// MustBuild is like Build but panics on error. Intended for tests and examples.
func (b *Builder) MustBuild() *graph.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
