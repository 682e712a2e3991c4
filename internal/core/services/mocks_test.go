package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

var zeroTime time.Time

// --- Mock implementations ---

// mockIndexStore implements driven.IndexStore for testing.
type mockIndexStore struct {
	mu      sync.Mutex
	index   *domain.Index
	loadErr error
	saveErr error
	saves   int
}

func (m *mockIndexStore) Load(_ context.Context) (*domain.Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.index == nil {
		return nil, fmt.Errorf("%w: not built", domain.ErrIndexUnavailable)
	}
	return m.index, nil
}

func (m *mockIndexStore) Save(_ context.Context, index *domain.Index) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.index = index
	m.saves++
	return nil
}

func (m *mockIndexStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// mockStatsStore implements driven.SearchStatsStore for testing.
type mockStatsStore struct {
	mu        sync.Mutex
	counts    map[string]int
	recordErr error
	listErr   error
}

func newMockStatsStore() *mockStatsStore {
	return &mockStatsStore{counts: make(map[string]int)}
}

func (m *mockStatsStore) RecordSearch(_ context.Context, query string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.counts[query]++
	return nil
}

func (m *mockStatsStore) PopularSearches(_ context.Context, limit int) ([]domain.SearchTerm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	terms := make([]domain.SearchTerm, 0, len(m.counts))
	for term, count := range m.counts {
		terms = append(terms, domain.SearchTerm{Term: term, Count: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms, nil
}

// mockHistoryStore implements driven.BuildHistoryStore for testing.
type mockHistoryStore struct {
	runs []domain.BuildRun
	err  error
}

func (m *mockHistoryStore) RecordBuild(_ context.Context, run domain.BuildRun) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockHistoryStore) RecentBuilds(_ context.Context, limit int) ([]domain.BuildRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit <= 0 || len(m.runs) < limit {
		limit = len(m.runs)
	}
	return m.runs[:limit], nil
}

// mockSource implements driven.DocumentSource for testing.
type mockSource struct {
	docs    []domain.RawDocument
	listErr error
	changes chan domain.RawDocumentChange
	closed  bool
}

func (m *mockSource) List(_ context.Context) ([]domain.RawDocument, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.docs, nil
}

func (m *mockSource) Watch(_ context.Context) (<-chan domain.RawDocumentChange, error) {
	if m.changes == nil {
		return nil, errors.New("watch unsupported")
	}
	return m.changes, nil
}

func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

// paragraphConverter implements driven.MarkupConverter by wrapping every
// non-blank line in a paragraph. Placeholder comments pass through untouched.
type paragraphConverter struct {
	err error
}

func (c paragraphConverter) Convert(markdown string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	var b strings.Builder
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "<!--"):
			b.WriteString(line + "\n")
		default:
			b.WriteString("<p>" + line + "</p>\n")
		}
	}
	return b.String(), nil
}

// mockArtifacts implements driven.ArtifactStore for testing.
type mockArtifacts struct {
	files    map[string]string
	removed  []string
	writeErr error
}

func newMockArtifacts() *mockArtifacts {
	return &mockArtifacts{files: make(map[string]string)}
}

func (m *mockArtifacts) Write(_ context.Context, name string, html []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[name] = string(html)
	return nil
}

func (m *mockArtifacts) Remove(_ context.Context, name string) error {
	delete(m.files, name)
	m.removed = append(m.removed, name)
	return nil
}
