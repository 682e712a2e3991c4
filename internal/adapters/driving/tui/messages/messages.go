// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.QueryResult
	Err     error
}

// SuggestionsLoaded carries completions for a partial query.
type SuggestionsLoaded struct {
	Query       string
	Suggestions []string
	Err         error
}

// PopularLoaded carries the most frequent queries.
type PopularLoaded struct {
	Terms []domain.SearchTerm
	Err   error
}

// RelatedLoaded carries documents related to DocumentID.
type RelatedLoaded struct {
	DocumentID string
	Results    []domain.SimilarityResult
	Err        error
}

// DocumentSelected is sent when a result is opened.
type DocumentSelected struct {
	Record domain.IndexRecord
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the search input and results view.
	ViewSearch ViewType = iota
	// ViewDocDetails shows one index record and its related documents.
	ViewDocDetails
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewDocDetails:
		return "doc_details"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
