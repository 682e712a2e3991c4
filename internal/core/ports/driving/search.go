package driving

import (
	"context"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

// SearchService provides search and discovery over the published index.
// An unavailable index yields empty results, never an error.
type SearchService interface {
	// Search ranks index records against a free-text query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.QueryResult, error)

	// Related returns documents similar to the one with the given id.
	Related(ctx context.Context, id string, limit int) ([]domain.SimilarityResult, error)

	// Suggest returns titles, tags and focus topics containing the query.
	Suggest(ctx context.Context, query string, limit int) ([]string, error)

	// Popular returns the most searched queries.
	Popular(ctx context.Context, limit int) ([]domain.SearchTerm, error)

	// Index returns the published index, or an error wrapping
	// domain.ErrIndexUnavailable.
	Index(ctx context.Context) (*domain.Index, error)

	// Document returns the index record with the given id.
	Document(ctx context.Context, id string) (*domain.IndexRecord, error)
}
