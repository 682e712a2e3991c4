package domain

import (
	"fmt"
	"strings"
)

// Placeholders used when a document carries no value for a field.
const (
	UnknownTitle  = "未命名文章"
	UnknownAuthor = "佚名"
	UnknownSource = "未知"
	UnknownGenre  = "未知"
)

// DefaultImportance is used when @meta omits importance.
const DefaultImportance = 3

// Document represents a parsed article with its identifying metadata.
// A re-ingested file produces a new Document; existing ones are never mutated.
type Document struct {
	// ID is the stable slug, unique within a build.
	ID string

	// URI is the original location of the input file.
	URI string

	// Title is the human-readable title.
	Title string

	// Author is the author line as written.
	Author string

	// Source names the work the article is taken from.
	Source string

	// Genre is the literary genre.
	Genre string

	// Tags are free-form topic tags in authored order.
	Tags []string

	// FocusTopics are examinable themes (dse_focus) in authored order.
	FocusTopics []string

	// Importance weights the document in search ranking.
	Importance float64

	// RawBody is the unmodified input text.
	RawBody string
}

// Meta is the decoded payload of an @meta block.
type Meta struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Source      string   `json:"source"`
	Genre       string   `json:"genre"`
	Tags        []string `json:"tags"`
	FocusTopics []string `json:"dse_focus"`
	Importance  *float64 `json:"importance,omitempty"`
}

// RequiredMetaFields are enforced when strict meta validation is enabled.
var RequiredMetaFields = []string{"id", "title", "author", "source"}

// Missing returns the required fields that are empty.
func (m Meta) Missing() []string {
	values := map[string]string{
		"id":     m.ID,
		"title":  m.Title,
		"author": m.Author,
		"source": m.Source,
	}
	var missing []string
	for _, field := range RequiredMetaFields {
		if strings.TrimSpace(values[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// Validate returns an error naming every missing required field.
func (m Meta) Validate() error {
	if missing := m.Missing(); len(missing) > 0 {
		return fmt.Errorf("missing required meta fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Document builds a Document from the metadata, applying the unknown
// placeholders for empty fields. fallbackID is used when the meta has no id.
func (m Meta) Document(fallbackID, uri, raw string) Document {
	importance := float64(DefaultImportance)
	if m.Importance != nil {
		importance = *m.Importance
	}
	return Document{
		ID:          orDefault(m.ID, fallbackID),
		URI:         uri,
		Title:       orDefault(m.Title, UnknownTitle),
		Author:      orDefault(m.Author, UnknownAuthor),
		Source:      orDefault(m.Source, UnknownSource),
		Genre:       orDefault(m.Genre, UnknownGenre),
		Tags:        cleanList(m.Tags),
		FocusTopics: cleanList(m.FocusTopics),
		Importance:  importance,
		RawBody:     raw,
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// cleanList trims entries and drops empty ones. Duplicates are kept: related
// scoring counts the queried document's entries with multiplicity.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
