package memory

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore holds the published index behind an atomic pointer. Save swaps
// in a new index; concurrent readers see either the old or the new one.
type IndexStore struct {
	current atomic.Pointer[domain.Index]
}

// NewIndexStore creates an empty in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// Load returns the current index.
func (s *IndexStore) Load(_ context.Context) (*domain.Index, error) {
	idx := s.current.Load()
	if idx == nil {
		return nil, fmt.Errorf("%w: nothing published", domain.ErrIndexUnavailable)
	}
	return idx, nil
}

// Save publishes index, replacing the previous one.
func (s *IndexStore) Save(_ context.Context, index *domain.Index) error {
	if index == nil {
		return domain.ErrInvalidInput
	}
	s.current.Store(index)
	return nil
}
