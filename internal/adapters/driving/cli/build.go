package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

var (
	buildDryRun  bool
	historyLimit int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build HTML fragments and the search index",
	Long: `Reads every article in the articles directory, renders its annotation
blocks into HTML, writes one fragment per document to the output directory
and publishes the search index.

Documents with fatal errors are reported and left out of the index; the
rest are still published. Malformed annotation blocks are reported as
warnings and skipped.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever articles change",
	Long: `Builds once, then rebuilds every time an article is created, changed or
removed. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent build runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "build in memory without writing any files")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of runs")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	svc := buildService
	if buildDryRun {
		if dryRunBuild == nil {
			return errors.New("dry run not supported")
		}
		svc = dryRunBuild()
	}
	if svc == nil {
		return errors.New("build service not configured")
	}

	report, err := svc.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	out := cmd.OutOrStdout()
	printReport(out, report)
	if buildDryRun {
		fmt.Fprintln(out, "Dry run: nothing was written.")
	} else if path := indexPath(); path != "" {
		fmt.Fprintf(out, "Index: %s\n", path)
	}
	return nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if buildService == nil {
		return errors.New("build service not configured")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Watching for changes. Press Ctrl+C to stop.")

	err := buildService.Watch(cmd.Context(), func(report *domain.BuildReport, err error) {
		if err != nil {
			fmt.Fprintf(out, "Build failed: %v\n", err)
			return
		}
		printReport(out, report)
	})
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if buildService == nil {
		return errors.New("build service not configured")
	}

	runs, err := buildService.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No builds recorded.")
		return nil
	}

	for i := range runs {
		r := &runs[i]
		fmt.Fprintf(out, "%s  %s  %d documents, %d indexed, %d failed, %d warnings (%s)\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.ID,
			r.Documents, r.Indexed, r.Failed, r.Warnings,
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	}
	return nil
}

// printReport writes a build summary followed by failures and warnings.
func printReport(out io.Writer, report *domain.BuildReport) {
	failed := report.Failed()
	fmt.Fprintf(out, "Build %s: %d documents, %d indexed, %d failed, %d warnings\n",
		report.RunID, len(report.Documents), report.Indexed, len(failed), report.WarningCount())

	for i := range report.Documents {
		doc := &report.Documents[i]
		name := doc.ID
		if name == "" {
			name = doc.URI
		}
		if doc.Status == domain.BuildFailed {
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, doc.Err)
		}
		for _, w := range doc.Warnings {
			fmt.Fprintf(out, "  ! %s: %v\n", name, w)
		}
	}
}

// indexPath returns the configured index file, or "" when unknown.
func indexPath() string {
	if settingsService == nil {
		return ""
	}
	settings, err := settingsService.Get()
	if err != nil {
		return ""
	}
	return filepath.Join(settings.Build.OutputDir, settings.Build.IndexFile)
}
