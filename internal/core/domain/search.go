package domain

import "strings"

// SearchField names an IndexRecord field that a query can match.
type SearchField string

// Recognised search fields.
const (
	FieldTitle       SearchField = "title"
	FieldTags        SearchField = "tags"
	FieldFocusTopics SearchField = "dse_focus"
	FieldAuthor      SearchField = "author"
	FieldContent     SearchField = "content"
	FieldGenre       SearchField = "genre"
)

// fieldWeights are fixed; callers choose fields but never weights.
var fieldWeights = map[SearchField]float64{
	FieldTitle:       10,
	FieldTags:        5,
	FieldFocusTopics: 3,
	FieldAuthor:      2,
	FieldContent:     1,
	FieldGenre:       1,
}

// ImportanceWeight multiplies a record's importance into its score.
const ImportanceWeight = 2

// ParseSearchField resolves a field name. "focusTopics" is accepted as an
// alias of "dse_focus".
func ParseSearchField(name string) (SearchField, bool) {
	if name == "focusTopics" {
		return FieldFocusTopics, true
	}
	f := SearchField(name)
	_, ok := fieldWeights[f]
	return f, ok
}

// Weight returns the score contributed by a match in this field.
func (f SearchField) Weight() float64 {
	return fieldWeights[f]
}

// Value returns the record's text for this field. List fields are joined
// with spaces.
func (f SearchField) Value(r *IndexRecord) string {
	switch f {
	case FieldTitle:
		return r.Title
	case FieldTags:
		return strings.Join(r.Tags, " ")
	case FieldFocusTopics:
		return strings.Join(r.FocusTopics, " ")
	case FieldAuthor:
		return r.Author
	case FieldContent:
		return r.Content
	case FieldGenre:
		return r.Genre
	default:
		return ""
	}
}

// DefaultSearchFields are searched when options name none.
func DefaultSearchFields() []SearchField {
	return []SearchField{FieldTitle, FieldContent, FieldTags}
}

// Search defaults.
const (
	DefaultSearchLimit    = 10
	DefaultRelatedLimit   = 5
	DefaultSuggestLimit   = 5
	DefaultPopularLimit   = 10
	SuggestionSearchLimit = 20
)

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// Fields restricts matching to these fields.
	Fields []SearchField
}

// QueryResult is a scored search hit.
type QueryResult struct {
	Record IndexRecord `json:"record"`
	Score  float64     `json:"score"`
}

// SimilarityResult is a related document with its similarity.
type SimilarityResult struct {
	Record     IndexRecord `json:"record"`
	Similarity float64     `json:"similarity"`
}

// Similarity weights.
const (
	SharedTagWeight   = 5
	SharedFocusWeight = 3
	SameGenreBonus    = 2
	SameAuthorBonus   = 4
)

// SearchTerm is a recorded query with its frequency.
type SearchTerm struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// DefaultPopularSearches is served before any query has been recorded.
func DefaultPopularSearches() []SearchTerm {
	return []SearchTerm{
		{Term: "荀子", Count: 100},
		{Term: "孟子", Count: 85},
		{Term: "莊子", Count: 75},
		{Term: "學習", Count: 65},
		{Term: "DSE", Count: 60},
		{Term: "比喻", Count: 55},
		{Term: "論證", Count: 50},
		{Term: "文言文", Count: 45},
		{Term: "作文", Count: 40},
		{Term: "考試", Count: 35},
	}
}
