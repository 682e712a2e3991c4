package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/studydeck/studydeck-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
)

// Store is a SQLite-based storage for search statistics and build history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.studydeck/data/stats.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".studydeck", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "stats.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SearchStatsStore returns a SearchStatsStore backed by this store.
func (s *Store) SearchStatsStore() driven.SearchStatsStore {
	return &searchStatsStore{store: s}
}

// BuildHistoryStore returns a BuildHistoryStore backed by this store.
func (s *Store) BuildHistoryStore() driven.BuildHistoryStore {
	return &buildHistoryStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Search Stats Store ====================

// searchStatsStore implements driven.SearchStatsStore.
type searchStatsStore struct {
	store *Store
}

var _ driven.SearchStatsStore = (*searchStatsStore)(nil)

// RecordSearch increments the count of a query.
func (s *searchStatsStore) RecordSearch(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO search_stats (term, count, last_seen)
		VALUES (?, 1, ?)
		ON CONFLICT(term) DO UPDATE SET
			count = count + 1,
			last_seen = excluded.last_seen
	`, query, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}
	return nil
}

// PopularSearches returns the most frequent queries, ties broken by term.
// A non-positive limit returns every recorded query.
func (s *searchStatsStore) PopularSearches(ctx context.Context, limit int) ([]domain.SearchTerm, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT term, count FROM search_stats
		ORDER BY count DESC, term ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying popular searches: %w", err)
	}
	defer rows.Close()

	terms := []domain.SearchTerm{}
	for rows.Next() {
		var term domain.SearchTerm
		if err := rows.Scan(&term.Term, &term.Count); err != nil {
			return nil, fmt.Errorf("scanning search term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// ==================== Build History Store ====================

// buildHistoryStore implements driven.BuildHistoryStore.
type buildHistoryStore struct {
	store *Store
}

var _ driven.BuildHistoryStore = (*buildHistoryStore)(nil)

// RecordBuild stores the summary of a run.
func (s *buildHistoryStore) RecordBuild(ctx context.Context, run domain.BuildRun) error {
	if run.ID == "" {
		return fmt.Errorf("%w: build run has no id", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO build_runs (id, started_at, finished_at, documents, indexed, failed, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Documents, run.Indexed, run.Failed, run.Warnings)
	if err != nil {
		return fmt.Errorf("recording build: %w", err)
	}
	return nil
}

// RecentBuilds returns the latest runs, newest first.
func (s *buildHistoryStore) RecentBuilds(ctx context.Context, limit int) ([]domain.BuildRun, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, documents, indexed, failed, warnings
		FROM build_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close()

	runs := []domain.BuildRun{}
	for rows.Next() {
		var run domain.BuildRun
		var started, finished sql.NullTime
		if err := rows.Scan(&run.ID, &started, &finished,
			&run.Documents, &run.Indexed, &run.Failed, &run.Warnings); err != nil {
			return nil, fmt.Errorf("scanning build: %w", err)
		}
		run.StartedAt = started.Time
		run.FinishedAt = finished.Time
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
