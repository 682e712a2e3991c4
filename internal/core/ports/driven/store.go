package driven

import (
	"context"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

// IndexStore publishes and loads the search index.
// Save replaces the whole index atomically; readers never observe a
// partially written index.
type IndexStore interface {
	// Load returns the current index. Implementations return an error
	// wrapping domain.ErrIndexUnavailable when the index is missing or malformed.
	Load(ctx context.Context) (*domain.Index, error)

	// Save replaces the current index.
	Save(ctx context.Context, index *domain.Index) error
}

// ArtifactStore persists rendered document fragments.
type ArtifactStore interface {
	// Write stores the HTML for a document under name, replacing any previous version.
	Write(ctx context.Context, name string, html []byte) error

	// Remove deletes the artifact stored under name. Removing a missing
	// artifact is not an error.
	Remove(ctx context.Context, name string) error
}

// SearchStatsStore records query frequencies.
type SearchStatsStore interface {
	// RecordSearch increments the count of a query.
	RecordSearch(ctx context.Context, query string) error

	// PopularSearches returns the most frequent queries, most frequent first.
	PopularSearches(ctx context.Context, limit int) ([]domain.SearchTerm, error)
}

// BuildHistoryStore records completed build runs.
type BuildHistoryStore interface {
	// RecordBuild stores the summary of a run.
	RecordBuild(ctx context.Context, run domain.BuildRun) error

	// RecentBuilds returns the latest runs, newest first.
	RecentBuilds(ctx context.Context, limit int) ([]domain.BuildRun, error)
}
