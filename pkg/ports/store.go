package ports

import (
	"context"

	"github.com/aretw0/autoflow/pkg/workflow"
)

// WorkflowStore persists workflow documents under a name.
type WorkflowStore interface {
	// Save stores doc under name, replacing any previous version.
	Save(ctx context.Context, name string, doc *workflow.Document) error

	// Load retrieves the document stored under name.
	// Returns domain.ErrWorkflowNotFound if nothing is stored under that name.
	Load(ctx context.Context, name string) (*workflow.Document, error)

	// Delete removes the document stored under name. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in lexical order.
	List(ctx context.Context) ([]string, error)
}
