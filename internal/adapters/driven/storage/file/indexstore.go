package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore persists the search index as JSON.
type IndexStore struct {
	path string
}

// NewIndexStore creates a store for the index file at path.
func NewIndexStore(path string) *IndexStore {
	return &IndexStore{path: path}
}

// Path returns the index file path.
func (s *IndexStore) Path() string {
	return s.path
}

// Load reads and decodes the index. Unknown fields are ignored and absent
// list fields are returned as empty lists.
func (s *IndexStore) Load(ctx context.Context) (*domain.Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", domain.ErrIndexUnavailable, s.path)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}

	var index domain.Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrIndexUnavailable, s.path, err)
	}

	if index.Data == nil {
		index.Data = []domain.IndexRecord{}
	}
	for i := range index.Data {
		if index.Data[i].Tags == nil {
			index.Data[i].Tags = []string{}
		}
		if index.Data[i].FocusTopics == nil {
			index.Data[i].FocusTopics = []string{}
		}
	}
	index.Count = len(index.Data)

	return &index, nil
}

// Save atomically replaces the index file.
func (s *IndexStore) Save(ctx context.Context, index *domain.Index) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if index == nil {
		return fmt.Errorf("%w: nil index", domain.ErrInvalidInput)
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	return writeFileAtomic(s.path, append(data, '\n'), 0644)
}

// writeFileAtomic writes data to a temporary sibling of path and renames it
// into place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
