package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
)

// Ensure StatsStore implements the stats and history interfaces.
var (
	_ driven.SearchStatsStore  = (*StatsStore)(nil)
	_ driven.BuildHistoryStore = (*StatsStore)(nil)
)

// StatsStore is an in-memory implementation of the search statistics and
// build history ports.
type StatsStore struct {
	mu       sync.RWMutex
	searches map[string]int
	builds   []domain.BuildRun
}

// NewStatsStore creates an empty stats store.
func NewStatsStore() *StatsStore {
	return &StatsStore{searches: make(map[string]int)}
}

// RecordSearch increments the count of query.
func (s *StatsStore) RecordSearch(_ context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches[query]++
	return nil
}

// PopularSearches returns up to limit queries by descending count, ties by term.
func (s *StatsStore) PopularSearches(_ context.Context, limit int) ([]domain.SearchTerm, error) {
	s.mu.RLock()
	terms := make([]domain.SearchTerm, 0, len(s.searches))
	for term, count := range s.searches {
		terms = append(terms, domain.SearchTerm{Term: term, Count: count})
	}
	s.mu.RUnlock()

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}
	return terms, nil
}

// RecordBuild appends run to the history.
func (s *StatsStore) RecordBuild(_ context.Context, run domain.BuildRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds = append(s.builds, run)
	return nil
}

// RecentBuilds returns up to limit runs, newest first.
func (s *StatsStore) RecentBuilds(_ context.Context, limit int) ([]domain.BuildRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]domain.BuildRun, 0, len(s.builds))
	for i := len(s.builds) - 1; i >= 0; i-- {
		if limit > 0 && len(runs) == limit {
			break
		}
		runs = append(runs, s.builds[i])
	}
	return runs, nil
}
