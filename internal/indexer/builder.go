package indexer

import (
	"time"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/logger"
)

// DateLayout formats the record date.
const DateLayout = "2006-01-02"

// Input is one published article: its metadata and the final HTML body.
type Input struct {
	Document domain.Document
	Markup   string
}

// Builder produces index records. It holds no state between builds, so
// every build starts from scratch.
type Builder struct {
	excerptLength int

	// Now supplies the record date. Defaults to time.Now.
	Now func() time.Time
}

// NewBuilder creates a builder. A non-positive excerptLength falls back to
// domain.DefaultExcerptLength.
func NewBuilder(excerptLength int) *Builder {
	if excerptLength <= 0 {
		excerptLength = domain.DefaultExcerptLength
	}
	return &Builder{
		excerptLength: excerptLength,
		Now:           time.Now,
	}
}

// Build returns one record per input, in input order.
func (b *Builder) Build(docs []Input) []domain.IndexRecord {
	logger.Section("Index Build")
	date := b.Now().Format(DateLayout)

	records := make([]domain.IndexRecord, 0, len(docs))
	for _, in := range docs {
		records = append(records, b.record(in, date))
	}

	logger.Info("Indexed %d documents", len(records))
	return records
}

func (b *Builder) record(in Input, date string) domain.IndexRecord {
	doc := in.Document
	text := PlainText(in.Markup)
	content, _ := Truncate(text, domain.ContentSampleLength)
	words := WordCount(text)

	importance := doc.Importance
	if importance == 0 {
		importance = domain.DefaultImportance
	}

	logger.Debug("Indexed %s: %d words", doc.ID, words)

	return domain.IndexRecord{
		ID:          doc.ID,
		Title:       doc.Title,
		Author:      doc.Author,
		Source:      doc.Source,
		Genre:       doc.Genre,
		Tags:        nonNil(doc.Tags),
		FocusTopics: nonNil(doc.FocusTopics),
		Content:     content,
		Excerpt:     Excerpt(text, b.excerptLength),
		URL:         ArtifactName(doc.ID),
		Date:        date,
		Importance:  importance,
		WordCount:   words,
		ReadingTime: ReadingTime(words),
	}
}

// ArtifactName returns the published file name for a document id.
func ArtifactName(id string) string {
	return id + ".html"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
