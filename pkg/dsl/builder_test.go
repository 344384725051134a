package dsl

import (
	"testing"

	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New()
	b.Add("node_1", domain.TypeLoopStart).Times(2).Go("node_2")
	b.Add("node_2", domain.TypeInputText).Text("hello").Param("clear", true).At(300, 40).Go("node_3")
	b.Add("node_3", domain.TypeLoopEnd).Go("node_7")
	b.Add("node_7", domain.TypeHotkey).Keys("ctrl+s")

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, []string{"node_1"}, g.StartNodes())
	assert.Equal(t, []string{"node_3"}, g.Successors("node_2"))
	assert.Equal(t, 7, g.NextID())

	loop, _ := g.Node("node_1")
	assert.Equal(t, map[string]any{"loop_count": 2, "loop_name": "loop"}, loop.Params, "defaults are kept for unset params")
	assert.Equal(t, 0, loop.X)

	text, _ := g.Node("node_2")
	assert.Equal(t, 300, text.X)
	assert.Equal(t, 40, text.Y)
	assert.Equal(t, true, text.Params["clear"])

	hotkey, _ := g.Node("node_7")
	assert.Equal(t, 3*autoLayoutStep, hotkey.X)
	assert.Equal(t, "ctrl+s", hotkey.Params["keys"])
}

func TestBuilder_Chain(t *testing.T) {
	g := New().
		Add("a", domain.TypeWait).Seconds(0.5).Go("b").
		Add("b", domain.TypeScroll).Repeat(3).
		Builder().MustBuild()

	assert.Equal(t, []string{"b"}, g.Successors("a"))
	assert.Equal(t, 0, g.NextID(), "non-conventional ids leave the counter alone")
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New()
	first := b.Add("a", domain.TypeWait)
	assert.Same(t, first, b.Add("a", domain.TypeHotkey))
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("Unknown Type", func(t *testing.T) {
		b := New()
		b.Add("a", "teleport")
		_, err := b.Build()
		var typeErr *domain.UnknownNodeTypeError
		assert.ErrorAs(t, err, &typeErr)
	})

	t.Run("Unknown Target", func(t *testing.T) {
		b := New()
		b.Add("a", domain.TypeWait).Go("ghost")
		_, err := b.Build()
		assert.ErrorContains(t, err, "ghost")
	})

	t.Run("Self Connection", func(t *testing.T) {
		b := New()
		b.Add("a", domain.TypeWait).Go("a")
		_, err := b.Build()
		assert.Error(t, err)
		assert.Panics(t, func() { b.MustBuild() })
	})
}
