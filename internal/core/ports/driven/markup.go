package driven

// MarkupConverter turns a Markdown body into HTML.
// Implementations must pass HTML comments through verbatim so that
// placeholder tokens survive conversion.
type MarkupConverter interface {
	// Convert returns the HTML rendering of markdown.
	Convert(markdown string) (string, error)
}
