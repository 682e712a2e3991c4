package annotations

import (
	"fmt"
	"html"
	"strings"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
)

// DefaultCalloutTitle heads callouts that do not name a title.
const DefaultCalloutTitle = "考試重點提醒："

// Renderer turns blocks into self-contained HTML fragments. Rendering is
// deterministic: the same block always yields the same bytes.
type Renderer struct {
	converter driven.MarkupConverter
}

// NewRenderer creates a renderer. The converter renders callout Markdown;
// when nil, callout content is emitted as an escaped paragraph.
func NewRenderer(converter driven.MarkupConverter) *Renderer {
	return &Renderer{converter: converter}
}

// Render returns the fragment for a block.
func (r *Renderer) Render(b domain.Block) (string, error) {
	switch p := b.Payload.(type) {
	case *domain.Quiz:
		return renderQuiz(p, b.Ordinal), nil
	case *domain.MemoryCard:
		return renderMemoryCard(p), nil
	case *domain.Exercise:
		return renderExercise(p), nil
	case *domain.Callout:
		return r.renderCallout(p)
	default:
		return "", fmt.Errorf("render %s block: unsupported payload %T", b.Kind, b.Payload)
	}
}

func renderQuiz(q *domain.Quiz, ordinal int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<div class=\"quiz-question\" data-question-id=\"q%d\">\n", ordinal+1)
	fmt.Fprintf(&b, "<p><strong>問題%d：</strong>%s</p>\n", ordinal+1, esc(q.Question))

	b.WriteString("<div class=\"quiz-options\">\n")
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "<div class=\"quiz-option\" data-correct=\"%t\">%s. %s</div>\n",
			opt.Correct, optionLabel(i), esc(opt.Text))
	}
	b.WriteString("</div>\n")

	b.WriteString("<div class=\"answer-feedback\">\n")
	lines := strings.Split(strings.ReplaceAll(q.Explanation, "\r\n", "\n"), "\n")
	if summary := strings.TrimSpace(lines[0]); summary != "" {
		fmt.Fprintf(&b, "<strong>%s</strong>\n", esc(summary))
	}
	if len(lines) > 1 {
		detail := make([]string, 0, len(lines)-1)
		for _, l := range lines[1:] {
			detail = append(detail, esc(l))
		}
		fmt.Fprintf(&b, "<p class=\"answer-detail\">%s</p>\n", strings.Join(detail, "<br>"))
	}
	if q.Points > 0 {
		fmt.Fprintf(&b, "<p class=\"quiz-points\">分值: %d分</p>\n", q.Points)
	}
	b.WriteString("</div>\n")

	b.WriteString("<button class=\"btn check-answer-btn\">查看答案</button>\n")
	b.WriteString("</div>\n")
	return b.String()
}

// optionLabel returns A, B, ..., Z, AA, AB, ... for zero-based i.
func optionLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}

func renderMemoryCard(c *domain.MemoryCard) string {
	var b strings.Builder
	b.WriteString("<div class=\"memory-card\">\n<div class=\"memory-card-inner\">\n")
	writeCardSide(&b, "memory-card-front", c.Front)
	writeCardSide(&b, "memory-card-back", c.Back)
	b.WriteString("</div>\n</div>\n")
	return b.String()
}

func writeCardSide(b *strings.Builder, class string, side domain.CardSide) {
	fmt.Fprintf(b, "<div class=\"%s\">\n<h4>%s</h4>\n<p>%s</p>\n", class, esc(side.Title), esc(side.Content))
	if side.Footer != "" {
		fmt.Fprintf(b, "<p class=\"memory-card-footer\">%s</p>\n", esc(side.Footer))
	}
	b.WriteString("</div>\n")
}

func renderExercise(e *domain.Exercise) string {
	if e.Type != domain.ExerciseSelfCheck {
		return ""
	}

	title := e.Title
	if title == "" {
		title = "學習進度檢查"
	}

	var b strings.Builder
	b.WriteString("<div class=\"exercise self-check\">\n")
	fmt.Fprintf(&b, "<h4>%s</h4>\n", esc(title))
	b.WriteString("<p>完成本文章學習後，請回答以下問題：</p>\n")
	b.WriteString("<ul class=\"exercise-questions\">\n")
	for i, q := range e.Questions {
		fmt.Fprintf(&b, "<li><label class=\"checkbox-label\"><input type=\"checkbox\" class=\"exercise-checkbox\" data-question=\"%d\"><span>%s</span></label></li>\n", i, esc(q))
	}
	b.WriteString("</ul>\n")
	b.WriteString("<button class=\"btn save-progress-btn\">保存進度</button>\n")
	b.WriteString("</div>\n")
	return b.String()
}

func (r *Renderer) renderCallout(c *domain.Callout) (string, error) {
	title := c.Title
	if title == "" {
		title = DefaultCalloutTitle
	}

	content := "<p>" + esc(c.Content) + "</p>\n"
	if r.converter != nil {
		converted, err := r.converter.Convert(c.Content)
		if err != nil {
			return "", fmt.Errorf("convert callout: %w", err)
		}
		content = converted
	}

	return fmt.Sprintf("<div class=\"dse-important\">\n<h5>%s</h5>\n%s</div>\n", esc(title), content), nil
}

func esc(s string) string {
	return html.EscapeString(s)
}
