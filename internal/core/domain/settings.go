package domain

import "time"

// BuildSettings holds build pipeline configuration.
type BuildSettings struct {
	// ArticlesDir is the directory scanned for Markdown articles.
	ArticlesDir string

	// OutputDir receives rendered HTML fragments and the search index.
	OutputDir string

	// IndexFile is the index file name inside OutputDir.
	IndexFile string

	// StrictMeta fails documents whose @meta lacks a required field.
	StrictMeta bool

	// ExcerptLength bounds the human excerpt in grapheme clusters.
	ExcerptLength int

	// WatchInterval is the minimum time between two watch rebuilds.
	WatchInterval time.Duration
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// DefaultLimit is used when a query does not name a limit.
	DefaultLimit int

	// Fields are searched when a query does not name any.
	Fields []SearchField

	// RelatedLimit is used when a related lookup does not name a limit.
	RelatedLimit int
}

// StatsSettings holds search statistics configuration.
type StatsSettings struct {
	// Enabled records queries in the statistics store.
	Enabled bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	Build  BuildSettings
	Search SearchSettings
	Stats  StatsSettings
}

// Default content bounds.
const (
	DefaultExcerptLength = 150
	ContentSampleLength  = 500
	DefaultIndexFile     = "search-index.json"
)

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Build: BuildSettings{
			ArticlesDir:   "./articles",
			OutputDir:     "./docs",
			IndexFile:     DefaultIndexFile,
			StrictMeta:    false,
			ExcerptLength: DefaultExcerptLength,
			WatchInterval: 2 * time.Second,
		},
		Search: SearchSettings{
			DefaultLimit: DefaultSearchLimit,
			Fields:       DefaultSearchFields(),
			RelatedLimit: DefaultRelatedLimit,
		},
		Stats: StatsSettings{
			Enabled: true,
		},
	}
}
