// Package annotations extracts typed annotation blocks from article bodies,
// renders them as HTML fragments and splices the fragments back into the
// converted markup.
//
// An annotation starts with a marker at the beginning of a line:
//
//	@meta          document metadata (JSON object, at most one)
//	@quiz          multiple choice question (JSON object)
//	@memory-card   two-sided flip card (JSON object)
//	@exercise      self-check list (JSON object)
//	@callout       exam reminder (JSON object or Markdown text)
//
// "@dse-important" is an alias of "@callout". A block's region ends at the
// next marker, the next ATX heading or the end of the document. Markers inside
// fenced code blocks are ignored.
//
// Extraction replaces each parsed block with a placeholder token such as
// "<!-- QUIZ:0 -->". Markdown converters pass HTML comments through, so the
// tokens survive conversion and Splice swaps them for rendered fragments.
package annotations
