package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

var (
	searchLimit  int
	searchOffset int
	searchFields []string
	searchJSON   bool

	relatedLimit int
	suggestLimit int
	popularLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Ranks published documents against a free-text query.

A match in the title weighs 10, tags 5, DSE focus topics 3, author 2,
content and genre 1 each; the document's importance adds twice its value.
Multi-word queries score each word separately.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var relatedCmd = &cobra.Command{
	Use:   "related [document-id]",
	Short: "List documents related to a document",
	Long: `Ranks other documents by shared tags (5 each), shared DSE focus topics
(3 each), the same genre (2) and the same author (4).`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [partial-query]",
	Short: "Suggest titles, tags and focus topics",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Show the most frequent searches",
	Args:  cobra.NoArgs,
	RunE:  runPopular,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")
	searchCmd.Flags().StringSliceVar(&searchFields, "fields", nil,
		"fields to search: title, tags, dse_focus, author, content, genre")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	relatedCmd.Flags().IntVarP(&relatedLimit, "limit", "n", domain.DefaultRelatedLimit, "maximum number of results")
	relatedCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", domain.DefaultSuggestLimit, "maximum number of suggestions")
	suggestCmd.Flags().BoolVar(&searchJSON, "json", false, "output suggestions as JSON")
	popularCmd.Flags().IntVarP(&popularLimit, "limit", "n", domain.DefaultPopularLimit, "maximum number of searches")
	popularCmd.Flags().BoolVar(&searchJSON, "json", false, "output searches as JSON")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(relatedCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(popularCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	fields, err := parseFields(searchFields)
	if err != nil {
		return err
	}

	opts := domain.SearchOptions{
		Limit:  searchLimit,
		Offset: searchOffset,
		Fields: fields,
	}

	results, err := searchService.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd.OutOrStdout(), results)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintln(out, "Results:")
	fmt.Fprintln(out)
	for i := range results {
		printRecord(out, searchOffset+i+1, &results[i].Record, results[i].Score)
	}
	return nil
}

func runRelated(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	results, err := searchService.Related(cmd.Context(), args[0], relatedLimit)
	if err != nil {
		return fmt.Errorf("related lookup failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd.OutOrStdout(), results)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No related documents found.")
		return nil
	}

	fmt.Fprintf(out, "Related to %s:\n\n", args[0])
	for i := range results {
		printRecord(out, i+1, &results[i].Record, results[i].Similarity)
	}
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	suggestions, err := searchService.Suggest(cmd.Context(), args[0], suggestLimit)
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	if searchJSON {
		return outputJSON(cmd.OutOrStdout(), suggestions)
	}

	out := cmd.OutOrStdout()
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "No suggestions.")
		return nil
	}
	for _, s := range suggestions {
		fmt.Fprintln(out, s)
	}
	return nil
}

func runPopular(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	terms, err := searchService.Popular(cmd.Context(), popularLimit)
	if err != nil {
		return fmt.Errorf("loading popular searches failed: %w", err)
	}
	if terms == nil {
		terms = []domain.SearchTerm{}
	}

	if searchJSON {
		return outputJSON(cmd.OutOrStdout(), terms)
	}

	out := cmd.OutOrStdout()
	for i, t := range terms {
		fmt.Fprintf(out, "%3d. %s (%d)\n", i+1, t.Term, t.Count)
	}
	return nil
}

// parseFields resolves --fields names, accepting focusTopics as an alias.
func parseFields(names []string) ([]domain.SearchField, error) {
	if len(names) == 0 {
		return nil, nil
	}
	fields := make([]domain.SearchField, 0, len(names))
	for _, name := range names {
		f, ok := domain.ParseSearchField(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("%w: unknown search field %q", domain.ErrInvalidInput, name)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// printRecord writes one numbered result with its labels and excerpt.
func printRecord(out io.Writer, n int, r *domain.IndexRecord, score float64) {
	title := r.Title
	if title == "" {
		title = r.ID
	}
	if r.Author != "" {
		title += " · " + r.Author
	}
	fmt.Fprintf(out, "  [%d] %s (%.2f)\n", n, title, score)
	fmt.Fprintf(out, "      id: %s\n", r.ID)

	labels := make([]string, 0, len(r.Tags)+len(r.FocusTopics))
	for _, t := range r.Tags {
		labels = append(labels, "#"+t)
	}
	for _, f := range r.FocusTopics {
		labels = append(labels, "◆"+f)
	}
	if len(labels) > 0 {
		fmt.Fprintf(out, "      %s\n", strings.Join(labels, " "))
	}
	if r.Excerpt != "" {
		fmt.Fprintf(out, "      %s\n", runewidth.Truncate(r.Excerpt, terminalWidth()-8, "..."))
	}
	fmt.Fprintln(out)
}

// terminalWidth returns the width of stdout, or 80 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width < 40 {
		return 80
	}
	return width
}

// outputJSON writes v as indented JSON.
func outputJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
