package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/domain"
)

// Store implements ports.ProjectStore in memory.
// Documents are kept as archive bytes, so callers never share maps with
// the store. Safe for concurrent use.
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

// Save persists the document in memory.
func (s *Store) Save(ctx context.Context, name string, doc *document.Document) error {
	data, err := document.EncodeArchive(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = data
	return nil
}

// Load decodes the stored archive of name.
func (s *Store) Load(ctx context.Context, name string) (*document.Document, error) {
	s.mu.RLock()
	data, ok := s.data[name]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, name)
	}
	return document.DecodeArchive(data)
}

// Delete removes the project.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored project names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
