// Package cli implements the studydeck command line interface.
// It is a driving adapter: commands call core services through driving ports.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studydeck/studydeck-cli/internal/core/ports/driving"
	"github.com/studydeck/studydeck-cli/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	verboseFlag bool
	quietFlag   bool
)

// Services injected by the composition root.
var (
	buildService    driving.BuildService
	searchService   driving.SearchService
	settingsService driving.SettingsService

	// dryRunBuild returns a build service that writes nothing to disk.
	dryRunBuild func() driving.BuildService
)

// Services groups the driving ports the commands use.
type Services struct {
	Build    driving.BuildService
	DryRun   func() driving.BuildService
	Search   driving.SearchService
	Settings driving.SettingsService
}

// SetServices injects the core services used by the commands.
func SetServices(s Services) {
	buildService = s.Build
	dryRunBuild = s.DryRun
	searchService = s.Search
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "studydeck",
	Short: "Build and search annotated DSE Chinese study articles",
	Long: `studydeck turns Markdown articles with quiz, memory card, exercise and
DSE focus annotations into HTML fragments and a JSON search index, and
searches that index from the terminal, a TUI or an MCP client.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
		logger.SetQuiet(quietFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "show pipeline stages and timings")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress warnings")
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
