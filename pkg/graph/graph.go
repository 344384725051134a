package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/autoflow/pkg/domain"
)

// Graph owns the nodes and connections of a workflow.
// Every mutation keeps it consistent: connections always reference existing nodes,
// never loop on a single node and never repeat.
//
// A Graph is not safe for concurrent mutation. Callers running the engine must
// make sure nothing edits the graph until the run finishes.
type Graph struct {
	nodes  map[string]*domain.Node
	order  []string
	conns  []domain.Connection
	nextID int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*domain.Node),
	}
}

// AddNode inserts a node with default parameters for its type.
// It returns false if the id is empty, already taken, or the type is unknown.
func (g *Graph) AddNode(id string, t domain.NodeType, x, y int) bool {
	if id == "" || !t.Valid() {
		return false
	}
	if _, exists := g.nodes[id]; exists {
		return false
	}
	g.nodes[id] = &domain.Node{
		ID:     id,
		Type:   t,
		X:      x,
		Y:      y,
		Params: domain.DefaultParams(t),
	}
	g.order = append(g.order, id)
	return true
}

// RemoveNode deletes a node together with every connection touching it.
func (g *Graph) RemoveNode(id string) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	delete(g.nodes, id)
	for i, existing := range g.order {
		if existing == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	kept := g.conns[:0]
	for _, c := range g.conns {
		if c.From != id && c.To != id {
			kept = append(kept, c)
		}
	}
	g.conns = kept
	return true
}

// AddConnection links from -> to. Self-loops and dangling endpoints are rejected;
// a connection that already exists is ignored. It returns true only when a new
// connection was stored.
func (g *Graph) AddConnection(from, to string) bool {
	if from == to {
		return false
	}
	if _, ok := g.nodes[from]; !ok {
		return false
	}
	if _, ok := g.nodes[to]; !ok {
		return false
	}
	for _, c := range g.conns {
		if c.From == from && c.To == to {
			return false
		}
	}
	g.conns = append(g.conns, domain.Connection{From: from, To: to})
	return true
}

// NodeAt returns the first node, in insertion order, whose bounding box contains the point.
func (g *Graph) NodeAt(x, y int) (string, bool) {
	for _, id := range g.order {
		if g.nodes[id].Contains(x, y) {
			return id, true
		}
	}
	return "", false
}

// Node returns the node stored under id. The returned value must be treated as read-only;
// use SetParams or Move to edit it.
func (g *Graph) Node(id string) (*domain.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// SetParams replaces the parameters of a node.
func (g *Graph) SetParams(id string, params map[string]any) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.Params = domain.CloneParams(params)
	return true
}

// Move changes the cosmetic position of a node.
func (g *Graph) Move(id string, x, y int) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.X, n.Y = x, y
	return true
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*domain.Node {
	out := make([]*domain.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Connections returns a copy of the connections in insertion order.
func (g *Graph) Connections() []domain.Connection {
	out := make([]domain.Connection, len(g.conns))
	copy(out, g.conns)
	return out
}

// Successors lists the targets of the outgoing connections of id, in connection order.
func (g *Graph) Successors(id string) []string {
	var out []string
	for _, c := range g.conns {
		if c.From == id {
			out = append(out, c.To)
		}
	}
	return out
}

// StartNodes returns every node with no incoming connection, in insertion order.
func (g *Graph) StartNodes() []string {
	incoming := make(map[string]bool, len(g.conns))
	for _, c := range g.conns {
		incoming[c.To] = true
	}
	var out []string
	for _, id := range g.order {
		if !incoming[id] {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Clear removes every node and connection and resets the id counter.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*domain.Node)
	g.order = nil
	g.conns = nil
	g.nextID = 0
}

// Replace swaps the whole content of g with other's. other must not be used afterwards.
func (g *Graph) Replace(other *Graph) {
	g.nodes = other.nodes
	g.order = other.order
	g.conns = other.conns
	g.nextID = other.nextID
}

// NewNodeID allocates the next conventional id ("node_1", "node_2", ...).
// Ids already taken are skipped.
func (g *Graph) NewNodeID() string {
	for {
		g.nextID++
		id := domain.NodeIDPrefix + strconv.Itoa(g.nextID)
		if _, taken := g.nodes[id]; !taken {
			return id
		}
	}
}

// NextID returns the current value of the id counter.
func (g *Graph) NextID() int {
	return g.nextID
}

// SetNextID overrides the id counter; the next allocated id is n+1.
func (g *Graph) SetNextID(n int) {
	g.nextID = n
}

// ParseNodeID extracts the numeric suffix of a conventional node id.
func ParseNodeID(id string) (int, error) {
	suffix, ok := strings.CutPrefix(id, domain.NodeIDPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrNonConformingID, id)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrNonConformingID, id)
	}
	return n, nil
}
