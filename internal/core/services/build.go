package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/studydeck/studydeck-cli/internal/annotations"
	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driving"
	"github.com/studydeck/studydeck-cli/internal/indexer"
	"github.com/studydeck/studydeck-cli/internal/logger"
)

// Ensure BuildService implements the interface.
var _ driving.BuildService = (*BuildService)(nil)

// BuildService runs the article pipeline: extract annotations, convert
// Markdown, splice fragments, write artifacts and publish the index.
type BuildService struct {
	source     driven.DocumentSource
	converter  driven.MarkupConverter
	artifacts  driven.ArtifactStore
	indexStore driven.IndexStore
	history    driven.BuildHistoryStore
	renderer   *annotations.Renderer
	builder    *indexer.Builder
	settings   domain.BuildSettings

	// now and newRunID are replaced in tests.
	now      func() time.Time
	newRunID func() string
}

// NewBuildService creates a new build service.
func NewBuildService(
	source driven.DocumentSource,
	converter driven.MarkupConverter,
	artifacts driven.ArtifactStore,
	indexStore driven.IndexStore,
	settings domain.BuildSettings,
) *BuildService {
	builder := indexer.NewBuilder(settings.ExcerptLength)
	s := &BuildService{
		source:     source,
		converter:  converter,
		artifacts:  artifacts,
		indexStore: indexStore,
		renderer:   annotations.NewRenderer(converter),
		builder:    builder,
		settings:   settings,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
	builder.Now = func() time.Time { return s.now() }
	return s
}

// SetHistoryStore sets the optional build history store.
func (s *BuildService) SetHistoryStore(history driven.BuildHistoryStore) {
	s.history = history
}

// History returns the latest recorded runs, newest first.
func (s *BuildService) History(ctx context.Context, limit int) ([]domain.BuildRun, error) {
	if s.history == nil {
		return []domain.BuildRun{}, nil
	}
	runs, err := s.history.RecentBuilds(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading build history: %w", err)
	}
	return runs, nil
}

// Build runs a full build. Documents that fail are recorded in the report
// and left out of the index; the rest are published. An error is returned
// only when the batch itself cannot run or the index cannot be saved.
func (s *BuildService) Build(ctx context.Context) (*domain.BuildReport, error) {
	logger.Section("Build")
	defer logger.Timed("Build", time.Now())

	report := &domain.BuildReport{
		RunID:     s.newRunID(),
		StartedAt: s.now(),
	}
	logger.Debug("Run: %s", report.RunID)

	// 1. List input documents
	stage := time.Now()
	raws, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	logger.Info("Found %d documents", len(raws))
	logger.Timed("List", stage)

	// 2. Remember the previous index so stale artifacts can be removed
	var previous *domain.Index
	if idx, err := s.indexStore.Load(ctx); err == nil {
		previous = idx
	}

	// 3. Process each document in order
	stage = time.Now()
	inputs := make([]indexer.Input, 0, len(raws))
	seen := make(map[string]string, len(raws))
	for i := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw := &raws[i]
		outcome := domain.DocumentOutcome{URI: raw.URI}

		input, blocks, warnings, err := s.processOne(ctx, raw, seen)
		outcome.Warnings = warnings
		for _, w := range warnings {
			logger.Warn("%s: %v", raw.URI, w)
		}

		if err != nil {
			logger.Warn("%s: %v", raw.URI, err)
			outcome.ID = input.Document.ID
			outcome.Status = domain.BuildFailed
			outcome.Err = err
			report.Documents = append(report.Documents, outcome)
			continue
		}

		seen[input.Document.ID] = raw.URI
		outcome.ID = input.Document.ID
		outcome.Status = domain.BuildPublished
		outcome.Blocks = blocks
		report.Documents = append(report.Documents, outcome)
		inputs = append(inputs, input)
	}

	logger.Timed("Documents", stage)

	// 4. Build and publish the index
	stage = time.Now()
	records := s.builder.Build(inputs)
	idx := domain.NewIndex(records, s.now().UTC(), report.RunID)
	if err := s.indexStore.Save(ctx, idx); err != nil {
		return report, fmt.Errorf("save index: %w", err)
	}
	report.Indexed = len(records)
	report.FinishedAt = s.now()
	logger.Timed("Index", stage)

	// 5. Remove artifacts of documents that are no longer published
	s.removeStale(ctx, previous, idx)

	// 6. Record the run
	if s.history != nil {
		if err := s.history.RecordBuild(ctx, report.Summary()); err != nil {
			logger.Warn("Failed to record build: %v", err)
		}
	}

	logger.Info("Build complete: %d indexed, %d failed, %d warnings",
		report.Indexed, len(report.Failed()), report.WarningCount())
	return report, nil
}

// processOne runs one document through the pipeline. On failure the
// returned input still carries the document id when it was resolved.
func (s *BuildService) processOne(
	ctx context.Context,
	raw *domain.RawDocument,
	seen map[string]string,
) (indexer.Input, int, []error, error) {
	var input indexer.Input

	// 1. EXTRACT annotation blocks
	ext, err := annotations.Extract(string(raw.Content))
	if err != nil {
		var metaErr *domain.MetaParseError
		if errors.As(err, &metaErr) {
			metaErr.Document = raw.URI
		}
		return input, 0, nil, err
	}

	// 2. VALIDATE metadata
	if s.settings.StrictMeta {
		if err := ext.Meta.Validate(); err != nil {
			return input, 0, ext.Warnings, &domain.MetaParseError{Document: raw.URI, Err: err}
		}
	}
	input.Document = ext.Meta.Document(fallbackID(raw.URI), raw.URI, string(raw.Content))
	id := input.Document.ID

	if first, dup := seen[id]; dup {
		return input, 0, ext.Warnings, fmt.Errorf("%w: %s already defined by %s", domain.ErrDuplicateDocument, id, first)
	}

	// 3. CONVERT Markdown to HTML
	markup, err := s.converter.Convert(ext.Body)
	if err != nil {
		return input, 0, ext.Warnings, fmt.Errorf("convert markdown: %w", err)
	}

	// 4. SPLICE rendered fragments into the placeholders
	html, err := annotations.Splice(markup, ext, s.renderer)
	if err != nil {
		return input, 0, ext.Warnings, fmt.Errorf("splice: %w", err)
	}

	// 5. WRITE the artifact
	if err := s.artifacts.Write(ctx, indexer.ArtifactName(id), []byte(html)); err != nil {
		return input, 0, ext.Warnings, fmt.Errorf("write artifact: %w", err)
	}

	input.Markup = html
	logger.Debug("Published %s (%d blocks)", id, ext.BlockCount())
	return input, ext.BlockCount(), ext.Warnings, nil
}

func (s *BuildService) removeStale(ctx context.Context, previous, current *domain.Index) {
	if previous == nil {
		return
	}
	for i := range previous.Data {
		id := previous.Data[i].ID
		if current.Find(id) >= 0 {
			continue
		}
		if err := s.artifacts.Remove(ctx, indexer.ArtifactName(id)); err != nil {
			logger.Warn("Failed to remove stale artifact for %s: %v", id, err)
			continue
		}
		logger.Debug("Removed stale artifact for %s", id)
	}
}

// fallbackID derives a document id from its file name.
func fallbackID(uri string) string {
	base := path.Base(strings.ReplaceAll(uri, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Watch builds once, then rebuilds on every change reported by the source
// until ctx is cancelled. Rebuilds are spaced at least WatchInterval apart;
// changes arriving meanwhile are folded into the next rebuild.
func (s *BuildService) Watch(ctx context.Context, onBuild func(*domain.BuildReport, error)) error {
	changes, err := s.source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch source: %w", err)
	}
	defer s.source.Close()

	interval := s.settings.WatchInterval
	if interval <= 0 {
		interval = domain.DefaultAppSettings().Build.WatchInterval
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	rebuild := func() bool {
		if err := limiter.Wait(ctx); err != nil {
			return false
		}
		drain(changes)
		report, err := s.Build(ctx)
		if ctx.Err() != nil {
			return false
		}
		onBuild(report, err)
		return true
	}

	if !rebuild() {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("Change detected: %s %s", change.Type, change.Document.URI)
			if !rebuild() {
				return nil
			}
		}
	}
}

// drain discards changes that are already queued.
func drain(changes <-chan domain.RawDocumentChange) {
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
