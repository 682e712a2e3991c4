package driven

import (
	"context"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

// DocumentSource provides the input articles of a build.
type DocumentSource interface {
	// List returns every buildable document in a stable order.
	List(ctx context.Context) ([]domain.RawDocument, error)

	// Watch streams changes until ctx is cancelled or Close is called.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error)

	// Close releases resources held by Watch.
	Close() error
}
