// Package mcp provides an MCP (Model Context Protocol) server adapter for StudyDeck.
// It lets AI assistants search the published article index and read its records.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
