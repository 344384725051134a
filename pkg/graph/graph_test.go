package graph_test

import (
	"testing"

	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds A->B, A->C, B->D, C->D.
func diamond(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for i, id := range []string{"A", "B", "C", "D"} {
		require.True(t, g.AddNode(id, domain.TypeWait, i*150, 100))
	}
	require.True(t, g.AddConnection("A", "B"))
	require.True(t, g.AddConnection("A", "C"))
	require.True(t, g.AddConnection("B", "D"))
	require.True(t, g.AddConnection("C", "D"))
	return g
}

func TestGraph_StartNodes(t *testing.T) {
	g := diamond(t)
	assert.Equal(t, []string{"A"}, g.StartNodes())

	require.True(t, g.AddNode("E", domain.TypeHotkey, 0, 0))
	assert.Equal(t, []string{"A", "E"}, g.StartNodes(), "isolated nodes are start nodes too")
}

func TestGraph_AddConnection(t *testing.T) {
	g := graph.New()
	g.AddNode("A", domain.TypeClickLeft, 0, 0)
	g.AddNode("B", domain.TypeClickLeft, 0, 0)

	t.Run("Idempotent", func(t *testing.T) {
		assert.True(t, g.AddConnection("A", "B"))
		assert.False(t, g.AddConnection("A", "B"))
		assert.Len(t, g.Connections(), 1)
	})

	t.Run("Rejects Self Loop", func(t *testing.T) {
		assert.False(t, g.AddConnection("A", "A"))
		assert.Len(t, g.Connections(), 1)
	})

	t.Run("Rejects Missing Endpoints", func(t *testing.T) {
		assert.False(t, g.AddConnection("A", "ghost"))
		assert.False(t, g.AddConnection("ghost", "B"))
		assert.Len(t, g.Connections(), 1)
	})

	t.Run("Reverse Direction Is Distinct", func(t *testing.T) {
		assert.True(t, g.AddConnection("B", "A"))
		assert.Len(t, g.Connections(), 2)
	})
}

func TestGraph_RemoveNodeCascades(t *testing.T) {
	g := diamond(t)

	require.True(t, g.RemoveNode("B"))

	assert.Equal(t, []domain.Connection{
		{From: "A", To: "C"},
		{From: "C", To: "D"},
	}, g.Connections())
	_, ok := g.Node("B")
	assert.False(t, ok)
	assert.Equal(t, 3, g.Len())

	assert.False(t, g.RemoveNode("B"), "second removal is a no-op")
}

func TestGraph_AddNode(t *testing.T) {
	g := graph.New()

	assert.True(t, g.AddNode("n", domain.TypeWait, 1, 2))
	assert.False(t, g.AddNode("n", domain.TypeHotkey, 0, 0), "ids are unique")
	assert.False(t, g.AddNode("", domain.TypeWait, 0, 0))
	assert.False(t, g.AddNode("x", domain.NodeType("teleport"), 0, 0))

	n, ok := g.Node("n")
	require.True(t, ok)
	assert.Equal(t, domain.TypeWait, n.Type)
	assert.Equal(t, 1.0, n.Params[domain.ParamSeconds])
}

func TestGraph_NodeAt(t *testing.T) {
	g := graph.New()
	g.AddNode("first", domain.TypeWait, 0, 0)
	g.AddNode("second", domain.TypeWait, 60, 30) // overlaps first

	id, ok := g.NodeAt(10, 10)
	require.True(t, ok)
	assert.Equal(t, "first", id)

	id, ok = g.NodeAt(100, 50)
	require.True(t, ok)
	assert.Equal(t, "first", id, "insertion order wins on overlap")

	id, ok = g.NodeAt(170, 80)
	require.True(t, ok)
	assert.Equal(t, "second", id)

	id, ok = g.NodeAt(120, 60)
	require.True(t, ok, "edges are inclusive")
	assert.Equal(t, "first", id)

	_, ok = g.NodeAt(500, 500)
	assert.False(t, ok)
}

func TestGraph_Successors(t *testing.T) {
	g := diamond(t)
	assert.Equal(t, []string{"B", "C"}, g.Successors("A"))
	assert.Empty(t, g.Successors("D"))
	assert.Empty(t, g.Successors("ghost"))
}

func TestGraph_SetParamsCopies(t *testing.T) {
	g := graph.New()
	g.AddNode("n", domain.TypeInputText, 0, 0)

	params := map[string]any{domain.ParamText: "hello"}
	require.True(t, g.SetParams("n", params))
	params[domain.ParamText] = "mutated"

	n, _ := g.Node("n")
	assert.Equal(t, "hello", n.Params[domain.ParamText])
	assert.False(t, g.SetParams("ghost", params))
}

func TestGraph_NewNodeID(t *testing.T) {
	g := graph.New()
	assert.Equal(t, "node_1", g.NewNodeID())

	g.AddNode("node_2", domain.TypeWait, 0, 0)
	assert.Equal(t, "node_3", g.NewNodeID(), "taken ids are skipped")

	g.SetNextID(41)
	assert.Equal(t, "node_42", g.NewNodeID())

	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, "node_1", g.NewNodeID())
}

func TestParseNodeID(t *testing.T) {
	n, err := graph.ParseNodeID("node_17")
	require.NoError(t, err)
	assert.Equal(t, 17, n)

	for _, bad := range []string{"start", "node_", "node_x", "node_-1", "nodes_1"} {
		_, err := graph.ParseNodeID(bad)
		assert.ErrorIs(t, err, domain.ErrNonConformingID, bad)
	}
}
