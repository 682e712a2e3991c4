// Package domain defines the core business entities for studydeck.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A parsed article with its identifying metadata
//   - Block: A typed annotation extracted from an article body
//   - PlaceholderToken: The inert marker left where a block was removed
//   - IndexRecord: The searchable projection of a published document
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
