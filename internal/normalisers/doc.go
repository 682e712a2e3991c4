// Package normalisers holds the document format converters used by the
// build pipeline. Each converter turns one source format into the HTML
// fragment that annotation placeholders are spliced into.
package normalisers
