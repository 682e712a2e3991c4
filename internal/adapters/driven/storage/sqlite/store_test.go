package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "studydeck-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "stats.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DefaultDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.Contains(t, store.Path(), filepath.Join(".studydeck", "data", "stats.db"))
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "nested", "path", "to", "db")

	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	for _, table := range []string{"schema_migrations", "search_stats", "build_runs"} {
		var name string
		err := store.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.SearchStatsStore().RecordSearch(context.Background(), "荀子"))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	terms, err := second.SearchStatsStore().PopularSearches(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.SearchTerm{{Term: "荀子", Count: 1}}, terms)

	var applied int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestMigrate_FailingMigration(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	fsys := fstest.MapFS{
		"002_broken.up.sql": {Data: []byte("CREATE TABLE (")},
		"notes.txt":         {Data: []byte("ignored")},
	}
	err := store.migrate(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_broken.up.sql")

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestStore_Close(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

// ==================== Search Stats Store ====================

func TestSearchStatsStore_RecordAndPopular(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	stats := store.SearchStatsStore()

	for _, q := range []string{"孟子", "荀子", " 荀子 ", "莊子", "荀子", "孟子"} {
		require.NoError(t, stats.RecordSearch(ctx, q))
	}

	terms, err := stats.PopularSearches(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.SearchTerm{
		{Term: "荀子", Count: 3},
		{Term: "孟子", Count: 2},
		{Term: "莊子", Count: 1},
	}, terms)
}

func TestSearchStatsStore_Limit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	stats := store.SearchStatsStore()
	for _, q := range []string{"c", "b", "a"} {
		require.NoError(t, stats.RecordSearch(ctx, q))
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"ties ordered by term", 2, []string{"a", "b"}},
		{"zero returns all", 0, []string{"a", "b", "c"}},
		{"negative returns all", -1, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := stats.PopularSearches(ctx, tt.limit)
			require.NoError(t, err)
			got := make([]string, len(terms))
			for i, term := range terms {
				got[i] = term.Term
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchStatsStore_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	terms, err := store.SearchStatsStore().PopularSearches(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, terms)
	assert.NotNil(t, terms)
}

func TestSearchStatsStore_RejectsBlankQuery(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.SearchStatsStore().RecordSearch(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchStatsStore_Concurrent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	stats := store.SearchStatsStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, stats.RecordSearch(ctx, "勸學"))
		}()
	}
	wg.Wait()

	terms, err := stats.PopularSearches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, 10, terms[0].Count)
}

// ==================== Build History Store ====================

func TestBuildHistoryStore_RecordAndRecent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	history := store.BuildHistoryStore()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		started := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, history.RecordBuild(ctx, domain.BuildRun{
			ID:         id,
			StartedAt:  started,
			FinishedAt: started.Add(2 * time.Second),
			Documents:  4,
			Indexed:    3,
			Failed:     1,
			Warnings:   i,
		}))
	}

	runs, err := history.RecentBuilds(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)
	assert.True(t, runs[0].StartedAt.Equal(base.Add(2*time.Hour)))
	assert.True(t, runs[0].FinishedAt.Equal(base.Add(2*time.Hour+2*time.Second)))
	assert.Equal(t, 4, runs[0].Documents)
	assert.Equal(t, 3, runs[0].Indexed)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, 2, runs[0].Warnings)

	all, err := history.RecentBuilds(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBuildHistoryStore_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	runs, err := store.BuildHistoryStore().RecentBuilds(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestBuildHistoryStore_Errors(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	history := store.BuildHistoryStore()

	err := history.RecordBuild(ctx, domain.BuildRun{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	run := domain.BuildRun{ID: "dup", StartedAt: time.Now(), FinishedAt: time.Now()}
	require.NoError(t, history.RecordBuild(ctx, run))
	err = history.RecordBuild(ctx, run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recording build")
}
