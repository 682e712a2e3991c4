package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query  string   `json:"query" jsonschema:"the search query, matched as a case-insensitive substring"`
	Limit  int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Offset int      `json:"offset,omitempty" jsonschema:"number of results to skip"`
	Fields []string `json:"fields,omitempty" jsonschema:"fields to match: title, tags, dse_focus, author, content, genre"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID  string   `json:"document_id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	URL         string   `json:"url"`
	Score       float64  `json:"score"`
	Tags        []string `json:"tags,omitempty"`
	FocusTopics []string `json:"dse_focus,omitempty"`
	Excerpt     string   `json:"excerpt,omitempty"`
}

// RelatedInput is the input schema for the related tool.
type RelatedInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of the document to find related articles for"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// RelatedOutput is the output schema for the related tool.
type RelatedOutput struct {
	Results []RelatedResultOutput `json:"results"`
	Count   int                   `json:"count"`
}

// RelatedResultOutput represents a single related document.
type RelatedResultOutput struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Similarity float64 `json:"similarity"`
}

// SuggestInput is the input schema for the suggest tool.
type SuggestInput struct {
	Query string `json:"query" jsonschema:"partial query to complete"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of suggestions (default 5)"`
}

// SuggestOutput is the output schema for the suggest tool.
type SuggestOutput struct {
	Suggestions []string `json:"suggestions"`
}

// PopularInput is the input schema for the popular tool.
type PopularInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of queries (default 10)"`
}

// PopularOutput is the output schema for the popular tool.
type PopularOutput struct {
	Searches []domain.SearchTerm `json:"searches"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the article index by title, tags, DSE focus topics, author, content or genre",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "related",
		Description: "Find articles sharing tags, focus topics, genre or author with a document",
	}, s.handleRelated)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggest",
		Description: "Complete a partial query from indexed titles, tags and focus topics",
	}, s.handleSuggest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "popular",
		Description: "List the most frequent search queries",
	}, s.handlePopular)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{Limit: input.Limit, Offset: input.Offset}
	for _, name := range input.Fields {
		field, ok := domain.ParseSearchField(name)
		if !ok {
			return nil, SearchOutput{}, fmt.Errorf("%w: unknown field %q", domain.ErrInvalidInput, name)
		}
		opts.Fields = append(opts.Fields, field)
	}

	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		rec := &results[i].Record
		output.Results[i] = SearchResultOutput{
			DocumentID:  rec.ID,
			Title:       rec.Title,
			Author:      rec.Author,
			URL:         rec.URL,
			Score:       results[i].Score,
			Tags:        rec.Tags,
			FocusTopics: rec.FocusTopics,
			Excerpt:     rec.Excerpt,
		}
	}

	return nil, output, nil
}

// handleRelated handles the related tool invocation.
func (s *Server) handleRelated(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelatedInput,
) (*mcp.CallToolResult, RelatedOutput, error) {
	if input.DocumentID == "" {
		return nil, RelatedOutput{}, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}

	results, err := s.ports.Search.Related(ctx, input.DocumentID, input.Limit)
	if err != nil {
		return nil, RelatedOutput{}, err
	}

	output := RelatedOutput{
		Results: make([]RelatedResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = RelatedResultOutput{
			DocumentID: results[i].Record.ID,
			Title:      results[i].Record.Title,
			URL:        results[i].Record.URL,
			Similarity: results[i].Similarity,
		}
	}

	return nil, output, nil
}

// handleSuggest handles the suggest tool invocation.
func (s *Server) handleSuggest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SuggestInput,
) (*mcp.CallToolResult, SuggestOutput, error) {
	suggestions, err := s.ports.Search.Suggest(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SuggestOutput{}, err
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return nil, SuggestOutput{Suggestions: suggestions}, nil
}

// handlePopular handles the popular tool invocation.
func (s *Server) handlePopular(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PopularInput,
) (*mcp.CallToolResult, PopularOutput, error) {
	terms, err := s.ports.Search.Popular(ctx, input.Limit)
	if err != nil {
		return nil, PopularOutput{}, err
	}
	if terms == nil {
		terms = []domain.SearchTerm{}
	}
	return nil, PopularOutput{Searches: terms}, nil
}
