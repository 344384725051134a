package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/autoflow/internal/presentation/tui"
	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	g := dsl.New().
		Add("node_1", domain.TypeLoopStart).Times(2).Param("loop_name", "retry").Go("node_2").
		Add("node_2", domain.TypeHotkey).Keys("ctrl+s").Go("node_3").
		Add("node_3", domain.TypeLoopEnd).Go("node_4").
		Add("node_4", domain.TypeWait).
		Builder().MustBuild()

	md := tui.Describe("save", g)

	assert.Contains(t, md, "# save\n")
	assert.Contains(t, md, "- Start: node_1\n")
	assert.Contains(t, md, "| node_2 | hotkey | keys=ctrl+s, repeat=1 | node_3 |")
	assert.Contains(t, md, "| node_4 | wait | seconds=1 | - |")
	assert.Contains(t, md, "### retry (node_1) x2")
	assert.Contains(t, md, "- node_2 → node_3\n")
	assert.Contains(t, md, "Then: node_3\n")
}

func TestDescribe_NoLoops(t *testing.T) {
	g := dsl.New().Add("node_1", domain.TypeWait).Builder().MustBuild()

	md := tui.Describe("w", g)
	assert.NotContains(t, md, "## Loops")
}

func TestRendererFor_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, tui.IsTerminal(&buf))
	assert.Nil(t, tui.RendererFor(&buf))
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("# Title")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_| |_|")
	assert.Contains(t, tui.Status(&buf, true, "saved"), "saved")
}
