package workflow

import (
	"fmt"

	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/graph"
)

// NodeSpec is the persisted form of a node; its id is the key it is stored under.
type NodeSpec struct {
	Type   domain.NodeType `json:"type" yaml:"type" msgpack:"type"`
	X      int             `json:"x" yaml:"x" msgpack:"x"`
	Y      int             `json:"y" yaml:"y" msgpack:"y"`
	Params map[string]any  `json:"params" yaml:"params" msgpack:"params"`
}

// NodeEntry pairs a node id with its spec.
type NodeEntry struct {
	ID   string
	Spec NodeSpec
}

// NodeMap is an id-keyed mapping of nodes that keeps document order.
// It encodes as a plain object/mapping in every supported format.
type NodeMap []NodeEntry

// Document is the persisted representation of a workflow graph.
type Document struct {
	Nodes       NodeMap             `json:"nodes" yaml:"nodes" msgpack:"nodes"`
	Connections []domain.Connection `json:"connections" yaml:"connections" msgpack:"connections"`
}

// FromGraph captures every node (in insertion order) and every connection of g.
func FromGraph(g *graph.Graph) *Document {
	doc := &Document{
		Nodes:       make(NodeMap, 0, g.Len()),
		Connections: g.Connections(),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeEntry{
			ID: n.ID,
			Spec: NodeSpec{
				Type:   n.Type,
				X:      n.X,
				Y:      n.Y,
				Params: domain.CloneParams(n.Params),
			},
		})
	}
	return doc
}

// Graph rebuilds a graph from the document. The id counter is set to the largest
// numeric suffix among node ids, so every id must follow the "node_<n>" convention.
// Connections the graph model refuses (dangling, self-loop, duplicate) are dropped.
func (d *Document) Graph() (*graph.Graph, error) {
	g := graph.New()
	maxID := 0

	for _, entry := range d.Nodes {
		t, err := domain.ParseNodeType(string(entry.Spec.Type))
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", entry.ID, err)
		}
		n, err := graph.ParseNodeID(entry.ID)
		if err != nil {
			return nil, err
		}
		if !g.AddNode(entry.ID, t, entry.Spec.X, entry.Spec.Y) {
			return nil, fmt.Errorf("%w: duplicate node id %q", domain.ErrMalformedDocument, entry.ID)
		}
		g.SetParams(entry.ID, entry.Spec.Params)
		maxID = max(maxID, n)
	}

	for _, c := range d.Connections {
		g.AddConnection(c.From, c.To)
	}

	g.SetNextID(maxID)
	return g, nil
}

// Load replaces the content of target with the document's graph.
// On any error target is left untouched.
func Load(doc *Document, target *graph.Graph) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrMalformedDocument)
	}
	if target == nil {
		return fmt.Errorf("%w: nil target graph", domain.ErrMalformedDocument)
	}
	g, err := doc.Graph()
	if err != nil {
		return err
	}
	target.Replace(g)
	return nil
}
