package domain

import "time"

// IndexFormatVersion is written into every persisted index.
const IndexFormatVersion = "1.0"

// IndexRecord is the searchable, read-only projection of a published document.
type IndexRecord struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Author      string   `json:"author" yaml:"author"`
	Source      string   `json:"source,omitempty" yaml:"source,omitempty"`
	Genre       string   `json:"genre" yaml:"genre"`
	Tags        []string `json:"tags" yaml:"tags"`
	FocusTopics []string `json:"dse_focus" yaml:"dse_focus"`
	Content     string   `json:"content" yaml:"content"`
	Excerpt     string   `json:"excerpt" yaml:"excerpt"`
	URL         string   `json:"url" yaml:"url"`
	Date        string   `json:"date" yaml:"date"`
	Importance  float64  `json:"importance" yaml:"importance"`
	WordCount   int      `json:"wordCount" yaml:"wordCount"`
	ReadingTime int      `json:"readingTime,omitempty" yaml:"readingTime,omitempty"`
}

// Index is the complete published search index. It is replaced wholesale on
// every build and never updated in place.
type Index struct {
	Version string        `json:"version" yaml:"version"`
	Created time.Time     `json:"created" yaml:"created"`
	Count   int           `json:"count" yaml:"count"`
	Data    []IndexRecord `json:"data" yaml:"data"`
	BuildID string        `json:"build,omitempty" yaml:"build,omitempty"`
}

// NewIndex wraps records in an Index stamped with the current format version.
func NewIndex(records []IndexRecord, created time.Time, buildID string) *Index {
	if records == nil {
		records = []IndexRecord{}
	}
	return &Index{
		Version: IndexFormatVersion,
		Created: created,
		Count:   len(records),
		Data:    records,
		BuildID: buildID,
	}
}

// Find returns the position of the record with the given id, or -1.
func (idx *Index) Find(id string) int {
	for i := range idx.Data {
		if idx.Data[i].ID == id {
			return i
		}
	}
	return -1
}
