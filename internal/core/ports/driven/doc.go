// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the build pipeline to function:
//
//   - DocumentSource: Lists and watches input articles
//   - MarkupConverter: Converts Markdown bodies to HTML
//   - ArtifactStore: Persists rendered HTML fragments
//   - IndexStore: Publishes and loads the search index
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SearchStatsStore: Query statistics. Without it, popular searches fall back to defaults.
//   - BuildHistoryStore: Build run history. Without it, runs are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or annotation package
package driven
