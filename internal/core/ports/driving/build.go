package driving

import (
	"context"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

// BuildService turns input articles into rendered fragments and a search index.
type BuildService interface {
	// Build runs a full, non-incremental build and publishes the index.
	// Per-document failures are reported, not returned.
	Build(ctx context.Context) (*domain.BuildReport, error)

	// Watch rebuilds whenever the input changes until ctx is cancelled.
	// onBuild is called after every rebuild.
	Watch(ctx context.Context, onBuild func(*domain.BuildReport, error)) error

	// History returns the latest recorded runs, newest first. It returns an
	// empty list when no history store is configured.
	History(ctx context.Context, limit int) ([]domain.BuildRun, error)
}
