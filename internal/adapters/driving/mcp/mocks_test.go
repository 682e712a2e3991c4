package mcp

import (
	"context"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driving"
)

var _ driving.SearchService = (*mockSearchService)(nil)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results     []domain.QueryResult
	related     []domain.SimilarityResult
	suggestions []string
	popular     []domain.SearchTerm
	index       *domain.Index
	record      *domain.IndexRecord
	err         error

	lastQuery string
	lastOpts  domain.SearchOptions
	lastID    string
	lastLimit int
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.QueryResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockSearchService) Related(_ context.Context, id string, limit int) ([]domain.SimilarityResult, error) {
	m.lastID = id
	m.lastLimit = limit
	return m.related, m.err
}

func (m *mockSearchService) Suggest(_ context.Context, query string, limit int) ([]string, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.suggestions, m.err
}

func (m *mockSearchService) Popular(_ context.Context, limit int) ([]domain.SearchTerm, error) {
	m.lastLimit = limit
	return m.popular, m.err
}

func (m *mockSearchService) Index(_ context.Context) (*domain.Index, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.index == nil {
		return nil, domain.ErrIndexUnavailable
	}
	return m.index, nil
}

func (m *mockSearchService) Document(_ context.Context, id string) (*domain.IndexRecord, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	if m.record == nil {
		return nil, domain.ErrUnknownDocument
	}
	return m.record, nil
}
