package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Build Errors.

	// ErrMetaParse indicates the @meta block of a document could not be parsed.
	// The document's identity cannot be established so its build is aborted.
	ErrMetaParse = errors.New("meta parse failed")

	// ErrBlockParse indicates a single annotation block could not be parsed.
	// The block's source text is left in the body and the build continues.
	ErrBlockParse = errors.New("block parse failed")

	// ErrDanglingPlaceholder indicates extraction and splicing went out of sync.
	ErrDanglingPlaceholder = errors.New("dangling placeholder")

	// ErrDuplicateDocument indicates two documents resolved to the same id.
	ErrDuplicateDocument = errors.New("duplicate document id")

	// Search Errors.

	// ErrIndexUnavailable indicates the search index is missing, unreadable or malformed.
	// Search and related lookups degrade to empty results.
	ErrIndexUnavailable = errors.New("search index unavailable")

	// ErrUnknownDocument indicates a related lookup named a document absent from the index.
	ErrUnknownDocument = errors.New("unknown document")
)

// MetaParseError reports a fatal @meta failure for one document.
type MetaParseError struct {
	// Document is the path or id of the failing document.
	Document string

	// Err is the underlying decode or validation error.
	Err error
}

func (e *MetaParseError) Error() string {
	if e.Document == "" {
		return fmt.Sprintf("%v: %v", ErrMetaParse, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Document, ErrMetaParse, e.Err)
}

// Unwrap returns the underlying error.
func (e *MetaParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMetaParse.
func (e *MetaParseError) Is(target error) bool { return target == ErrMetaParse }

// BlockParseError reports a recoverable failure of one annotation block.
type BlockParseError struct {
	// Kind is the block kind named by the marker.
	Kind BlockKind

	// Line is the 1-based line of the marker in the raw document.
	Line int

	// Err is the underlying decode or validation error.
	Err error
}

func (e *BlockParseError) Error() string {
	return fmt.Sprintf("line %d: %s block: %v: %v", e.Line, e.Kind, ErrBlockParse, e.Err)
}

// Unwrap returns the underlying error.
func (e *BlockParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrBlockParse.
func (e *BlockParseError) Is(target error) bool { return target == ErrBlockParse }

// DanglingPlaceholderError reports a placeholder that could not be resolved.
// Missing is true when an extracted block's token was absent from the markup,
// false when a token survived after every block was spliced.
type DanglingPlaceholderError struct {
	Token   PlaceholderToken
	Missing bool
}

func (e *DanglingPlaceholderError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%v: %s not found in markup", ErrDanglingPlaceholder, e.Token)
	}
	return fmt.Sprintf("%v: %s has no matching block", ErrDanglingPlaceholder, e.Token)
}

// Is reports whether target is ErrDanglingPlaceholder.
func (e *DanglingPlaceholderError) Is(target error) bool { return target == ErrDanglingPlaceholder }
