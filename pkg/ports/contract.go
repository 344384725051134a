package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractDocument() *workflow.Document {
	return &workflow.Document{
		Nodes: workflow.NodeMap{
			{ID: "node_1", Spec: workflow.NodeSpec{
				Type: domain.TypeLoopStart, X: 10, Y: 10,
				Params: map[string]any{"loop_count": 2, "loop_name": "outer"},
			}},
			{ID: "node_2", Spec: workflow.NodeSpec{
				Type: domain.TypeWait, X: 150, Y: 10,
				Params: map[string]any{"seconds": 0.5},
			}},
			{ID: "node_3", Spec: workflow.NodeSpec{
				Type: domain.TypeInputText, X: 300, Y: 10,
				Params: map[string]any{"text": "hello", "clear": true},
			}},
		},
		Connections: []domain.Connection{
			{From: "node_1", To: "node_2"},
			{From: "node_2", To: "node_3"},
		},
	}
}

// RunWorkflowStoreContract runs a suite of tests to verify that a WorkflowStore
// implementation adheres to the interface contract.
func RunWorkflowStoreContract(t *testing.T, store WorkflowStore) {
	ctx := context.Background()
	prefix := fmt.Sprintf("contract-%d", time.Now().UnixNano())

	t.Run("Save and Load", func(t *testing.T) {
		name := prefix + "-save"
		doc := contractDocument()

		require.NoError(t, store.Save(ctx, name, doc), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, doc.Nodes, loaded.Nodes, "nodes keep order, types and params")
		assert.Equal(t, doc.Connections, loaded.Connections)
	})

	t.Run("Overwrite", func(t *testing.T) {
		name := prefix + "-overwrite"
		require.NoError(t, store.Save(ctx, name, contractDocument()))

		smaller := contractDocument()
		smaller.Nodes = smaller.Nodes[:1]
		smaller.Connections = []domain.Connection{}
		require.NoError(t, store.Save(ctx, name, smaller))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Len(t, loaded.Nodes, 1)
		assert.Empty(t, loaded.Connections)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		name := prefix + "-delete"
		require.NoError(t, store.Save(ctx, name, contractDocument()))

		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrWorkflowNotFound, "Load after Delete should return ErrWorkflowNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		b := prefix + "-list-b"
		a := prefix + "-list-a"
		require.NoError(t, store.Save(ctx, b, contractDocument()))
		require.NoError(t, store.Save(ctx, a, contractDocument()))
		defer func() {
			_ = store.Delete(ctx, a)
			_ = store.Delete(ctx, b)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, a)
		assert.Contains(t, names, b)
		assert.IsIncreasing(t, names, "names are sorted")
	})
}
