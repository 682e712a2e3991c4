package domain

import (
	"errors"
	"fmt"
	"strings"
)

// BlockKind identifies the type of an annotation block.
type BlockKind int

// Recognised block kinds. The order is the order in which the splicer
// resolves placeholders.
const (
	// KindMeta carries the document's identifying metadata.
	KindMeta BlockKind = iota

	// KindQuiz is a multiple choice question.
	KindQuiz

	// KindMemoryCard is a two-sided flip card.
	KindMemoryCard

	// KindExercise is a self-check checklist.
	KindExercise

	// KindCallout is a highlighted exam reminder.
	KindCallout
)

// SplicedKinds returns the kinds that leave placeholders in the body.
func SplicedKinds() []BlockKind {
	return []BlockKind{KindQuiz, KindMemoryCard, KindExercise, KindCallout}
}

// String returns the marker name without the leading '@'.
func (k BlockKind) String() string {
	switch k {
	case KindMeta:
		return "meta"
	case KindQuiz:
		return "quiz"
	case KindMemoryCard:
		return "memory-card"
	case KindExercise:
		return "exercise"
	case KindCallout:
		return "callout"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// PlaceholderName returns the upper-case name used inside placeholder tokens.
func (k BlockKind) PlaceholderName() string {
	return strings.ToUpper(k.String())
}

// KindForMarker resolves a marker name (without '@') to a block kind.
// "dse-important" is accepted as an alias of "callout".
func KindForMarker(name string) (BlockKind, bool) {
	switch name {
	case "meta":
		return KindMeta, true
	case "quiz":
		return KindQuiz, true
	case "memory-card":
		return KindMemoryCard, true
	case "exercise":
		return KindExercise, true
	case "callout", "dse-important":
		return KindCallout, true
	default:
		return 0, false
	}
}

// KindForPlaceholder resolves a placeholder name back to a block kind.
func KindForPlaceholder(name string) (BlockKind, bool) {
	for _, k := range SplicedKinds() {
		if k.PlaceholderName() == name {
			return k, true
		}
	}
	return 0, false
}

// Payload is the typed content of a non-meta annotation block.
type Payload interface {
	// Kind returns the block kind this payload belongs to.
	Kind() BlockKind

	// Validate checks the kind's required fields.
	Validate() error
}

// Block is one successfully parsed annotation.
type Block struct {
	// Kind is the block kind.
	Kind BlockKind

	// Ordinal is the zero-based position among blocks of the same kind.
	Ordinal int

	// Line is the 1-based line of the marker in the raw document.
	Line int

	// Payload is the decoded content.
	Payload Payload
}

// Token returns the placeholder token that stands in for this block.
func (b Block) Token() PlaceholderToken {
	return PlaceholderToken{Kind: b.Kind, Ordinal: b.Ordinal}
}

// QuizOption is one answer of a quiz.
type QuizOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Quiz is a multiple choice question.
type Quiz struct {
	Question    string       `json:"question"`
	Options     []QuizOption `json:"options"`
	Explanation string       `json:"explanation"`
	Points      int          `json:"points,omitempty"`
}

// Kind implements Payload.
func (q *Quiz) Kind() BlockKind { return KindQuiz }

// Validate implements Payload.
func (q *Quiz) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("missing question")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("need at least 2 options, got %d", len(q.Options))
	}
	correct := 0
	for i, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("option %d has no text", i)
		}
		if opt.Correct {
			correct++
		}
	}
	if correct == 0 {
		return errors.New("no option marked correct")
	}
	return nil
}

// CardSide is one face of a memory card.
type CardSide struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Footer  string `json:"footer,omitempty"`
}

// MemoryCard is a two-sided flip card.
type MemoryCard struct {
	Front CardSide `json:"front"`
	Back  CardSide `json:"back"`
}

// Kind implements Payload.
func (c *MemoryCard) Kind() BlockKind { return KindMemoryCard }

// Validate implements Payload.
func (c *MemoryCard) Validate() error {
	if strings.TrimSpace(c.Front.Title) == "" {
		return errors.New("missing front.title")
	}
	if strings.TrimSpace(c.Back.Title) == "" {
		return errors.New("missing back.title")
	}
	return nil
}

// ExerciseSelfCheck is the only exercise type with a renderer.
const ExerciseSelfCheck = "self-check"

// Exercise is a list of self-check questions.
type Exercise struct {
	Type      string   `json:"type"`
	Title     string   `json:"title,omitempty"`
	Questions []string `json:"questions"`
}

// Kind implements Payload.
func (e *Exercise) Kind() BlockKind { return KindExercise }

// Validate implements Payload.
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Type) == "" {
		return errors.New("missing type")
	}
	if len(e.Questions) == 0 {
		return errors.New("missing questions")
	}
	return nil
}

// Callout is a highlighted exam reminder. Content is Markdown.
type Callout struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// Kind implements Payload.
func (c *Callout) Kind() BlockKind { return KindCallout }

// Validate implements Payload.
func (c *Callout) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return errors.New("missing content")
	}
	return nil
}

// PlaceholderToken marks the position of a removed block in a cleaned body.
type PlaceholderToken struct {
	Kind    BlockKind
	Ordinal int
}

// String renders the token as an HTML comment, e.g. "<!-- QUIZ:0 -->".
func (t PlaceholderToken) String() string {
	return fmt.Sprintf("<!-- %s:%d -->", t.Kind.PlaceholderName(), t.Ordinal)
}
