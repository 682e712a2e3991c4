// Package driving declares what the CLI, TUI and MCP adapters may ask of the
// core: build the article set, query the index and manage settings.
// internal/core/services implements every interface here.
package driving
