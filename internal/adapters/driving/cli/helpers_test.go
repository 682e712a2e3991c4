package cli

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/studydeck/studydeck-cli/internal/adapters/driven/storage/memory"
	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driving"
	"github.com/studydeck/studydeck-cli/internal/core/services"
)

// mockBuildService implements driving.BuildService for testing.
type mockBuildService struct {
	report     *domain.BuildReport
	err        error
	runs       []domain.BuildRun
	historyErr error
	builds     int
}

func (m *mockBuildService) Build(_ context.Context) (*domain.BuildReport, error) {
	m.builds++
	return m.report, m.err
}

func (m *mockBuildService) Watch(ctx context.Context, onBuild func(*domain.BuildReport, error)) error {
	if m.err != nil && m.report == nil {
		return m.err
	}
	onBuild(m.report, nil)
	onBuild(nil, errors.New("index not writable"))
	return ctx.Err()
}

func (m *mockBuildService) History(_ context.Context, limit int) ([]domain.BuildRun, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	if limit > 0 && limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results     []domain.QueryResult
	related     []domain.SimilarityResult
	suggestions []string
	terms       []domain.SearchTerm
	index       *domain.Index
	err         error

	lastQuery string
	lastOpts  domain.SearchOptions
	lastLimit int
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.QueryResult, error) {
	m.lastQuery, m.lastOpts = query, opts
	return m.results, m.err
}

func (m *mockSearchService) Related(_ context.Context, id string, limit int) ([]domain.SimilarityResult, error) {
	m.lastQuery, m.lastLimit = id, limit
	return m.related, m.err
}

func (m *mockSearchService) Suggest(_ context.Context, query string, limit int) ([]string, error) {
	m.lastQuery, m.lastLimit = query, limit
	return m.suggestions, m.err
}

func (m *mockSearchService) Popular(_ context.Context, limit int) ([]domain.SearchTerm, error) {
	m.lastLimit = limit
	return m.terms, m.err
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
	if m.index != nil {
		if i := m.index.Find(id); i >= 0 {
			return &m.index.Data[i], nil
		}
	}
	return nil, domain.ErrUnknownDocument
}

var (
	_ driving.BuildService  = (*mockBuildService)(nil)
	_ driving.SearchService = (*mockSearchService)(nil)
)

var (
	testBuild  *mockBuildService
	testSearch *mockSearchService
)

func testRecords() []domain.IndexRecord {
	return []domain.IndexRecord{
		{
			ID:          "xunzi-quanxue",
			Title:       "勸學",
			Author:      "荀子",
			Genre:       "論說文",
			Tags:        []string{"儒家", "學習"},
			FocusTopics: []string{"比喻論證"},
			Excerpt:     "君子曰：學不可以已。",
			WordCount:   420,
			Importance:  5,
		},
		{ID: "mengzi-yuwo", Title: "魚我所欲也", Author: "孟子", Tags: []string{"儒家"}, WordCount: 380},
	}
}

// setupTestServices installs mock services and returns a cleanup function
// restoring the previous services and flag values.
func setupTestServices() func() {
	prevBuild, prevSearch, prevSettings, prevDryRun := buildService, searchService, settingsService, dryRunBuild

	records := testRecords()
	testBuild = &mockBuildService{
		report: &domain.BuildReport{
			RunID: "run-1",
			Documents: []domain.DocumentOutcome{
				{ID: "xunzi-quanxue", URI: "articles/xunzi.md", Status: domain.BuildPublished},
				{URI: "articles/broken.md", Status: domain.BuildFailed, Err: domain.ErrMetaParse},
			},
			Indexed: 1,
		},
		runs: []domain.BuildRun{{
			ID:         "run-1",
			StartedAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2026, 3, 14, 9, 0, 1, 0, time.UTC),
			Documents:  2, Indexed: 1, Failed: 1,
		}},
	}
	testSearch = &mockSearchService{
		results: []domain.QueryResult{{Record: records[0], Score: 20}},
		related: []domain.SimilarityResult{{Record: records[1], Similarity: 5}},
		terms:   domain.DefaultPopularSearches(),
		index:   domain.NewIndex(records, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), "run-1"),
	}

	SetServices(Services{
		Build:    testBuild,
		DryRun:   func() driving.BuildService { return &mockBuildService{report: &domain.BuildReport{RunID: "dry"}} },
		Search:   testSearch,
		Settings: services.NewSettingsService(memory.NewConfigStore()),
	})

	return func() {
		buildService, searchService, settingsService, dryRunBuild = prevBuild, prevSearch, prevSettings, prevDryRun
		resetFlags()
	}
}

// clearServices removes all services and returns a cleanup function.
func clearServices() func() {
	prevBuild, prevSearch, prevSettings, prevDryRun := buildService, searchService, settingsService, dryRunBuild
	SetServices(Services{})
	return func() {
		buildService, searchService, settingsService, dryRunBuild = prevBuild, prevSearch, prevSettings, prevDryRun
		resetFlags()
	}
}

// resetFlags restores flag variables shared across command executions.
func resetFlags() {
	searchLimit, searchOffset, searchFields, searchJSON = 10, 0, nil, false
	relatedLimit = domain.DefaultRelatedLimit
	suggestLimit = domain.DefaultSuggestLimit
	popularLimit = domain.DefaultPopularLimit
	buildDryRun, historyLimit = false, 10
	exportFormat, exportOutput = "json", ""
	verboseFlag, quietFlag = false, false
	mcpPort, mcpHTTP = 0, false
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
