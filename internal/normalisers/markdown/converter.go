// Package markdown converts Markdown article bodies to HTML with goldmark.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.MarkupConverter = (*Converter)(nil)

// Converter renders GitHub-flavoured Markdown. Raw HTML, including the
// placeholder comments left by annotation extraction, is passed through
// unchanged. Single newlines inside a paragraph become line breaks.
type Converter struct {
	md goldmark.Markdown
}

// New creates a new Markdown converter.
func New() *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
				html.WithHardWraps(),
			),
		),
	}
}

// Convert returns the HTML rendering of markdown.
func (c *Converter) Convert(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
