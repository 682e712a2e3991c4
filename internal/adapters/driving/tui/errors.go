package tui

import "errors"

// Port validation errors returned by NewApp.
var (
	ErrMissingSearchService = errors.New("tui: search service is required")
	ErrInvalidPorts         = errors.New("tui: invalid ports configuration")
)
