package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore writes rendered fragments into a directory.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates a store rooted at dir. The directory is created
// on first write.
func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

// Dir returns the output directory.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// Write stores html under name, replacing any previous version.
func (s *ArtifactStore) Write(ctx context.Context, name string, html []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, html, 0644)
}

// Remove deletes the artifact stored under name.
func (s *ArtifactStore) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// resolve maps an artifact name to a path inside the output directory.
func (s *ArtifactStore) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: artifact name %q", domain.ErrInvalidInput, name)
	}
	return filepath.Join(s.dir, name), nil
}
