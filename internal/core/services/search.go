package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driving"
	"github.com/studydeck/studydeck-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService ranks records of the published index.
type SearchService struct {
	indexStore driven.IndexStore
	statsStore driven.SearchStatsStore
	settings   domain.SearchSettings
}

// NewSearchService creates a new search service.
// The statsStore parameter is optional (can be nil).
func NewSearchService(indexStore driven.IndexStore, statsStore driven.SearchStatsStore) *SearchService {
	return &SearchService{
		indexStore: indexStore,
		statsStore: statsStore,
		settings:   domain.DefaultAppSettings().Search,
	}
}

// SetSearchSettings overrides the default limits and fields.
func (s *SearchService) SetSearchSettings(settings domain.SearchSettings) {
	if settings.DefaultLimit > 0 {
		s.settings.DefaultLimit = settings.DefaultLimit
	}
	if settings.RelatedLimit > 0 {
		s.settings.RelatedLimit = settings.RelatedLimit
	}
	if len(settings.Fields) > 0 {
		s.settings.Fields = settings.Fields
	}
}

// Search ranks every record that matches query in at least one field.
// Score is the sum of matched field weights plus importance times
// domain.ImportanceWeight.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.QueryResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.QueryResult{}, nil
	}

	s.recordSearch(ctx, query)

	limit := opts.Limit
	if limit <= 0 {
		limit = s.settings.DefaultLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	logger.Debug("Limit: %d, Offset: %d", limit, offset)

	results := s.rank(ctx, query, opts.Fields)
	results = applyPagination(results, offset, limit)
	logger.Info("Final results: %d", len(results))

	return results, nil
}

// rank scores and sorts all matching records without pagination.
func (s *SearchService) rank(ctx context.Context, query string, requested []domain.SearchField) []domain.QueryResult {
	idx, ok := s.loadIndex(ctx)
	if !ok {
		return []domain.QueryResult{}
	}

	fields := s.resolveFields(requested)
	logger.Debug("Fields: %v", fields)

	needle := strings.ToLower(query)
	results := make([]domain.QueryResult, 0)
	for i := range idx.Data {
		rec := &idx.Data[i]
		score := 0.0
		matched := false
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f.Value(rec)), needle) {
				score += f.Weight()
				matched = true
			}
		}
		if !matched {
			continue
		}
		score += rec.Importance * domain.ImportanceWeight
		results = append(results, domain.QueryResult{Record: *rec, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	logger.Debug("Matched %d of %d records", len(results), len(idx.Data))
	return results
}

// resolveFields drops unknown and repeated fields. An empty request, or one
// with no usable field, falls back to the configured defaults.
func (s *SearchService) resolveFields(requested []domain.SearchField) []domain.SearchField {
	if len(requested) == 0 {
		return s.settings.Fields
	}

	seen := make(map[domain.SearchField]bool, len(requested))
	fields := make([]domain.SearchField, 0, len(requested))
	for _, f := range requested {
		field, ok := domain.ParseSearchField(string(f))
		if !ok {
			logger.Warn("Ignoring unknown search field %q", f)
			continue
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		fields = append(fields, field)
	}

	if len(fields) == 0 {
		return s.settings.Fields
	}
	return fields
}

// Related returns the documents most similar to id. Similarity counts the
// queried document's tags and focus topics found in each candidate, so it
// is not symmetric when lists contain repeated entries.
func (s *SearchService) Related(ctx context.Context, id string, limit int) ([]domain.SimilarityResult, error) {
	logger.Section("Related Documents")
	logger.Debug("Document: %q", id)

	if limit <= 0 {
		limit = s.settings.RelatedLimit
	}

	idx, ok := s.loadIndex(ctx)
	if !ok {
		return []domain.SimilarityResult{}, nil
	}

	pos := idx.Find(id)
	if pos < 0 {
		logger.Debug("Unknown document %q", id)
		return []domain.SimilarityResult{}, nil
	}
	current := &idx.Data[pos]

	results := make([]domain.SimilarityResult, 0)
	for i := range idx.Data {
		candidate := &idx.Data[i]
		if candidate.ID == id {
			continue
		}
		if sim := similarity(current, candidate); sim > 0 {
			results = append(results, domain.SimilarityResult{Record: *candidate, Similarity: sim})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > limit {
		results = results[:limit]
	}
	logger.Info("Related results: %d", len(results))
	return results, nil
}

// similarity scores candidate against current.
func similarity(current, candidate *domain.IndexRecord) float64 {
	score := 0.0
	for _, tag := range current.Tags {
		if contains(candidate.Tags, tag) {
			score += domain.SharedTagWeight
		}
	}
	for _, focus := range current.FocusTopics {
		if contains(candidate.FocusTopics, focus) {
			score += domain.SharedFocusWeight
		}
	}
	if current.Genre != "" && current.Genre == candidate.Genre {
		score += domain.SameGenreBonus
	}
	if current.Author != "" && current.Author == candidate.Author {
		score += domain.SameAuthorBonus
	}
	return score
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Suggest collects distinct titles, tags and focus topics containing query
// from the top search results. Suggestions are not recorded as searches.
func (s *SearchService) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = domain.DefaultSuggestLimit
	}

	results := applyPagination(s.rank(ctx, query, nil), 0, domain.SuggestionSearchLimit)
	needle := strings.ToLower(query)

	seen := make(map[string]bool)
	suggestions := make([]string, 0, limit)
	add := func(v string) {
		if !seen[v] && strings.Contains(strings.ToLower(v), needle) {
			seen[v] = true
			suggestions = append(suggestions, v)
		}
	}

	for _, r := range results {
		add(r.Record.Title)
		for _, tag := range r.Record.Tags {
			add(tag)
		}
		for _, focus := range r.Record.FocusTopics {
			add(focus)
		}
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// Popular returns the most frequent recorded queries, or the built-in list
// when no statistics exist.
func (s *SearchService) Popular(ctx context.Context, limit int) ([]domain.SearchTerm, error) {
	if limit <= 0 {
		limit = domain.DefaultPopularLimit
	}

	if s.statsStore != nil {
		terms, err := s.statsStore.PopularSearches(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("popular searches: %w", err)
		}
		if len(terms) > 0 {
			return terms, nil
		}
	}

	terms := domain.DefaultPopularSearches()
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms, nil
}

// Index returns the published index.
func (s *SearchService) Index(ctx context.Context) (*domain.Index, error) {
	if s.indexStore == nil {
		return nil, fmt.Errorf("%w: no index store", domain.ErrIndexUnavailable)
	}
	return s.indexStore.Load(ctx)
}

// Document returns the index record with the given id.
func (s *SearchService) Document(ctx context.Context, id string) (*domain.IndexRecord, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	pos := idx.Find(id)
	if pos < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDocument, id)
	}
	rec := idx.Data[pos]
	return &rec, nil
}

// loadIndex returns the published index. Failures are logged and reported
// as unavailable so queries degrade to empty results.
func (s *SearchService) loadIndex(ctx context.Context) (*domain.Index, bool) {
	if s.indexStore == nil {
		logger.Warn("Search unavailable: no index store")
		return nil, false
	}
	idx, err := s.indexStore.Load(ctx)
	if err != nil {
		logger.Warn("Search index unavailable: %v", err)
		return nil, false
	}
	return idx, true
}

// recordSearch stores query in the statistics store. Failures are logged.
func (s *SearchService) recordSearch(ctx context.Context, query string) {
	if s.statsStore == nil {
		return
	}
	if err := s.statsStore.RecordSearch(ctx, query); err != nil {
		logger.Warn("Failed to record search: %v", err)
	}
}

// applyPagination returns results[offset:offset+limit], clamped.
func applyPagination[T any](results []T, offset, limit int) []T {
	if offset < 0 || offset >= len(results) || limit <= 0 {
		return []T{}
	}
	if remaining := len(results) - offset; limit > remaining {
		limit = remaining
	}
	return results[offset : offset+limit]
}
