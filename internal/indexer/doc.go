// Package indexer turns published articles into search index records.
//
// A record carries a plain text sample of the rendered article, a short
// excerpt, word and reading-time statistics, and the article's metadata.
// Text is truncated on grapheme cluster boundaries so multi-byte Chinese
// characters and combining sequences are never split.
package indexer
