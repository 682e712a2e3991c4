// Package file provides filesystem implementations of the index and
// artifact stores.
//
// The index is persisted as a single JSON document. Every Save writes to a
// temporary file in the same directory and renames it over the previous
// index, so a concurrent reader sees either the old or the new index.
// Rendered fragments are written as {id}.html files into the output
// directory.
package file
