// Command studydeck builds and searches annotated DSE Chinese study articles.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/studydeck/studydeck-cli/internal/adapters/driven/config/file"
	filestore "github.com/studydeck/studydeck-cli/internal/adapters/driven/storage/file"
	"github.com/studydeck/studydeck-cli/internal/adapters/driven/storage/memory"
	"github.com/studydeck/studydeck-cli/internal/adapters/driven/storage/sqlite"
	"github.com/studydeck/studydeck-cli/internal/adapters/driving/cli"
	"github.com/studydeck/studydeck-cli/internal/connectors/filesystem"
	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driving"
	"github.com/studydeck/studydeck-cli/internal/core/services"
	"github.com/studydeck/studydeck-cli/internal/logger"
	"github.com/studydeck/studydeck-cli/internal/normalisers/markdown"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "STUDYDECK_CONFIG_DIR"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("reading .env: %v", err)
	}

	configDir := os.Getenv(EnvConfigDir)
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	stats, history, closeStore := openStatsStore(configDir)
	defer closeStore()

	indexStore := filestore.NewIndexStore(filepath.Join(settings.Build.OutputDir, settings.Build.IndexFile))
	converter := markdown.New()

	buildService := services.NewBuildService(
		filesystem.New(settings.Build.ArticlesDir),
		converter,
		filestore.NewArtifactStore(settings.Build.OutputDir),
		indexStore,
		settings.Build,
	)
	buildService.SetHistoryStore(history)

	var statsStore driven.SearchStatsStore
	if settings.Stats.Enabled {
		statsStore = stats
	}
	searchService := services.NewSearchService(indexStore, statsStore)
	searchService.SetSearchSettings(settings.Search)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Build:    buildService,
		DryRun:   dryRun(settings.Build, converter),
		Search:   searchService,
		Settings: settingsService,
	})

	return cli.Execute()
}

// openStatsStore opens the SQLite statistics and history database, falling
// back to an in-memory store when it cannot be opened.
func openStatsStore(configDir string) (driven.SearchStatsStore, driven.BuildHistoryStore, func()) {
	dataDir := ""
	if configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("search statistics kept in memory: %v", err)
		mem := memory.NewStatsStore()
		return mem, mem, func() {}
	}

	return store.SearchStatsStore(), store.BuildHistoryStore(), func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing statistics database: %v", err)
		}
	}
}

// dryRun returns a factory for build services that keep every output in memory.
func dryRun(settings domain.BuildSettings, converter driven.MarkupConverter) func() driving.BuildService {
	return func() driving.BuildService {
		return services.NewBuildService(
			filesystem.New(settings.ArticlesDir),
			converter,
			memory.NewArtifactStore(),
			memory.NewIndexStore(),
			settings,
		)
	}
}
