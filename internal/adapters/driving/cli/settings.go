package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change build, search and statistics settings.

Settings are stored in ~/.studydeck/config.toml. STUDYDECK_ARTICLES_DIR and
STUDYDECK_OUTPUT_DIR, from the environment or a .env file, take precedence.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a setting by its dotted key, for example:

  studydeck settings set build.articles_dir ./articles
  studydeck settings set search.fields title,tags,dse_focus
  studydeck settings set build.watch_interval 5s`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current Settings")
	fmt.Fprintln(out, "================")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Build]")
	fmt.Fprintf(out, "  Articles dir:   %s\n", settings.Build.ArticlesDir)
	fmt.Fprintf(out, "  Output dir:     %s\n", settings.Build.OutputDir)
	fmt.Fprintf(out, "  Index file:     %s\n", settings.Build.IndexFile)
	fmt.Fprintf(out, "  Strict meta:    %s\n", yesNo(settings.Build.StrictMeta))
	fmt.Fprintf(out, "  Excerpt length: %d\n", settings.Build.ExcerptLength)
	fmt.Fprintf(out, "  Watch interval: %s\n", settings.Build.WatchInterval)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Search]")
	fmt.Fprintf(out, "  Default limit:  %d\n", settings.Search.DefaultLimit)
	fmt.Fprintf(out, "  Fields:         %s\n", joinFields(settings.Search.Fields))
	fmt.Fprintf(out, "  Related limit:  %d\n", settings.Search.RelatedLimit)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Stats]")
	fmt.Fprintf(out, "  Enabled:        %s\n", yesNo(settings.Stats.Enabled))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, k := range settingsService.Keys() {
		fmt.Fprintln(cmd.OutOrStdout(), k)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinFields(fields []domain.SearchField) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
