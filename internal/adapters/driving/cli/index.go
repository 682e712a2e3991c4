package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

var (
	exportFormat string
	exportOutput string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect the published search index",
}

var indexShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarise the published index",
	Args:  cobra.NoArgs,
	RunE:  runIndexShow,
}

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the published index as JSON or YAML",
	Args:  cobra.NoArgs,
	RunE:  runIndexExport,
}

var documentCmd = &cobra.Command{
	Use:   "document [id]",
	Short: "Show one index record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocument,
}

func init() {
	indexExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json or yaml")
	indexExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	indexCmd.AddCommand(indexShowCmd)
	indexCmd.AddCommand(indexExportCmd)
	indexCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexShow(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	index, err := searchService.Index(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Version:   %s\n", index.Version)
	fmt.Fprintf(out, "Created:   %s\n", index.Created.Local().Format("2006-01-02 15:04:05"))
	if index.BuildID != "" {
		fmt.Fprintf(out, "Build:     %s\n", index.BuildID)
	}
	fmt.Fprintf(out, "Documents: %d\n", index.Count)
	if len(index.Data) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	for i := range index.Data {
		r := &index.Data[i]
		fmt.Fprintf(out, "  %-24s %s (%s, %d 字)\n", r.ID, r.Title, r.Author, r.WordCount)
	}
	return nil
}

func runIndexExport(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	index, err := searchService.Index(cmd.Context())
	if err != nil {
		return err
	}

	data, err := encodeIndex(index, exportFormat)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d documents to %s\n", index.Count, exportOutput)
	return nil
}

func runDocument(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	record, err := searchService.Document(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return outputJSON(cmd.OutOrStdout(), record)
}

// encodeIndex renders the index in the requested format.
func encodeIndex(index *domain.Index, format string) ([]byte, error) {
	switch format {
	case "json":
		var buf bytes.Buffer
		if err := outputJSON(&buf, index); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(index)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want json or yaml)", domain.ErrInvalidInput, format)
	}
}
