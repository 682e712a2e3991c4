// Package tui provides an interactive terminal user interface for studydeck.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/studydeck/studydeck-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides search, suggestions and related documents.
	Search driving.SearchService

	// Settings supplies the result page size. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(search driving.SearchService, settings driving.SettingsService) *Ports {
	return &Ports{
		Search:   search,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
