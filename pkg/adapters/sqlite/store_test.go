package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/autoflow/pkg/adapters/sqlite"
	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/ports"
	"github.com/aretw0/autoflow/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ports.RunWorkflowStoreContract(t, store)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workflows.db")
	ctx := context.Background()

	doc := &workflow.Document{Nodes: workflow.NodeMap{
		{ID: "node_4", Spec: workflow.NodeSpec{Type: domain.TypeScroll, Params: map[string]any{"amount": -50, "repeat": 3}}},
	}}

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "scroller", doc))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "scroller")
	require.NoError(t, err)
	assert.Equal(t, doc.Nodes, loaded.Nodes)
}
