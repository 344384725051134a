package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/workflow"
)

// Store implements ports.WorkflowStore in memory.
// Documents are kept encoded, so callers never share maps with the store.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save encodes the document and keeps it under name.
func (s *Store) Save(ctx context.Context, name string, doc *workflow.Document) error {
	if name == "" {
		return fmt.Errorf("workflow name cannot be empty")
	}
	data, err := workflow.Marshal(doc, workflow.FormatMsgPack)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = data
	return nil
}

// Load decodes a fresh copy of the document stored under name.
func (s *Store) Load(ctx context.Context, name string) (*workflow.Document, error) {
	s.mu.RLock()
	data, ok := s.data[name]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrWorkflowNotFound
	}
	return workflow.Unmarshal(data, workflow.FormatMsgPack)
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
