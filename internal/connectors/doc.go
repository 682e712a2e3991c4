// Package connectors provides implementations of the DocumentSource
// interface. Each connector knows how to list and watch the input articles
// of a build from one kind of location.
package connectors
