package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driving"
	"github.com/studydeck/studydeck-cli/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyArticlesDir   = "build.articles_dir"
	KeyOutputDir     = "build.output_dir"
	KeyIndexFile     = "build.index_file"
	KeyStrictMeta    = "build.strict_meta"
	KeyExcerptLength = "build.excerpt_length"
	KeyWatchInterval = "build.watch_interval"
	KeyDefaultLimit  = "search.default_limit"
	KeySearchFields  = "search.fields"
	KeyRelatedLimit  = "search.related_limit"
	KeyStatsEnabled  = "stats.enabled"
)

// Environment variables that take precedence over the config file.
const (
	EnvArticlesDir = "STUDYDECK_ARTICLES_DIR"
	EnvOutputDir   = "STUDYDECK_OUTPUT_DIR"
)

type keyKind int

const (
	kindString keyKind = iota
	kindBool
	kindPositiveInt
	kindDuration
	kindFields
)

var settingKeys = map[string]keyKind{
	KeyArticlesDir:   kindString,
	KeyOutputDir:     kindString,
	KeyIndexFile:     kindString,
	KeyStrictMeta:    kindBool,
	KeyExcerptLength: kindPositiveInt,
	KeyWatchInterval: kindDuration,
	KeyDefaultLimit:  kindPositiveInt,
	KeySearchFields:  kindFields,
	KeyRelatedLimit:  kindPositiveInt,
	KeyStatsEnabled:  kindBool,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore

	// lookupEnv reads environment overrides. Replaced in tests.
	lookupEnv func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings. Values missing from the
// config store fall back to defaults; environment variables win over both.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Build: domain.BuildSettings{
			ArticlesDir:   s.getEnvString(EnvArticlesDir, KeyArticlesDir, defaults.Build.ArticlesDir),
			OutputDir:     s.getEnvString(EnvOutputDir, KeyOutputDir, defaults.Build.OutputDir),
			IndexFile:     s.getString(KeyIndexFile, defaults.Build.IndexFile),
			StrictMeta:    s.getBool(KeyStrictMeta, defaults.Build.StrictMeta),
			ExcerptLength: s.getInt(KeyExcerptLength, defaults.Build.ExcerptLength),
			WatchInterval: s.getDuration(KeyWatchInterval, defaults.Build.WatchInterval),
		},
		Search: domain.SearchSettings{
			DefaultLimit: s.getInt(KeyDefaultLimit, defaults.Search.DefaultLimit),
			Fields:       s.getFields(defaults.Search.Fields),
			RelatedLimit: s.getInt(KeyRelatedLimit, defaults.Search.RelatedLimit),
		},
		Stats: domain.StatsSettings{
			Enabled: s.getBool(KeyStatsEnabled, defaults.Stats.Enabled),
		},
	}

	return settings, nil
}

// Set validates value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var typed any
	switch kind {
	case kindString:
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		typed = value
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	case kindPositiveInt:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s must be a positive duration such as 2s", domain.ErrInvalidInput, key)
		}
		typed = d.String()
	case kindFields:
		fields, err := parseFieldList(value)
		if err != nil {
			return err
		}
		typed = fields
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Keys returns the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyArticlesDir,
		KeyOutputDir,
		KeyIndexFile,
		KeyStrictMeta,
		KeyExcerptLength,
		KeyWatchInterval,
		KeyDefaultLimit,
		KeySearchFields,
		KeyRelatedLimit,
		KeyStatsEnabled,
	}
}

// parseFieldList validates a comma separated field list and returns the
// canonical names.
func parseFieldList(value string) ([]string, error) {
	var names []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, ok := domain.ParseSearchField(part)
		if !ok {
			return nil, fmt.Errorf("%w: unknown search field %q", domain.ErrInvalidInput, part)
		}
		names = append(names, string(field))
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s needs at least one field", domain.ErrInvalidInput, KeySearchFields)
	}
	return names, nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getEnvString(env, key, defaultVal string) string {
	if val, ok := s.lookupEnv(env); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return s.getString(key, defaultVal)
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		logger.Warn("Ignoring invalid %s %q", key, val)
		return defaultVal
	}
	return d
}

func (s *SettingsService) getFields(defaultVal []domain.SearchField) []domain.SearchField {
	names := s.configStore.GetStringSlice(KeySearchFields)
	if len(names) == 0 {
		return defaultVal
	}
	fields := make([]domain.SearchField, 0, len(names))
	for _, name := range names {
		if field, ok := domain.ParseSearchField(name); ok {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return defaultVal
	}
	return fields
}
