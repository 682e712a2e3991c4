package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore keeps rendered fragments in memory.
type ArtifactStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewArtifactStore creates an empty artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{files: make(map[string][]byte)}
}

// Write stores a copy of html under name.
func (s *ArtifactStore) Write(_ context.Context, name string, html []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = append([]byte(nil), html...)
	return nil
}

// Remove deletes name if present.
func (s *ArtifactStore) Remove(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
	return nil
}

// Get returns the stored fragment.
func (s *ArtifactStore) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	html, ok := s.files[name]
	return html, ok
}

// Names returns the stored names in sorted order.
func (s *ArtifactStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
