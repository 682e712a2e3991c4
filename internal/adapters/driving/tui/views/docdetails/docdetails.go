// Package docdetails provides the document details view component for the TUI.
package docdetails

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/messages"
	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/styles"
	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driving"
)

// View shows one index record and the documents related to it.
type View struct {
	styles        *styles.Styles
	searchService driving.SearchService
	ctx           context.Context

	record       *domain.IndexRecord
	related      []domain.SimilarityResult
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
}

// NewView creates a new document details view.
func NewView(s *styles.Styles, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		searchService: searchService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetRecord shows record and returns a command loading its related documents.
func (v *View) SetRecord(record domain.IndexRecord) tea.Cmd {
	v.record = &record
	v.related = nil
	v.scrollOffset = 0
	v.err = nil

	if v.searchService == nil {
		return nil
	}
	id := record.ID
	return func() tea.Msg {
		results, err := v.searchService.Related(v.ctx, id, domain.DefaultRelatedLimit)
		return messages.RelatedLoaded{DocumentID: id, Results: results, Err: err}
	}
}

// SetError sets an error to display.
func (v *View) SetError(err error) {
	v.err = err
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the document details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RelatedLoaded:
		if v.record == nil || msg.DocumentID != v.record.ID {
			return v, nil
		}
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.related = msg.Results
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}

	return v, nil
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, help, and padding
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	maxOffset := len(v.buildContent()) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// buildContent renders the record into styled lines.
func (v *View) buildContent() []string {
	if v.record == nil {
		return nil
	}
	r := v.record

	lines := []string{
		v.field("ID", r.ID),
		v.field("篇名", r.Title),
		v.field("作者", r.Author),
	}
	if r.Source != "" {
		lines = append(lines, v.field("出處", r.Source))
	}
	lines = append(lines,
		v.field("文體", r.Genre),
		v.field("日期", r.Date),
		v.field("重要度", fmt.Sprintf("%g", r.Importance)),
		v.field("字數", fmt.Sprintf("%d", r.WordCount)),
	)
	if r.ReadingTime > 0 {
		lines = append(lines, v.field("閱讀時間", fmt.Sprintf("%d 分鐘", r.ReadingTime)))
	}
	lines = append(lines, v.field("URL", r.URL))

	if len(r.Tags) > 0 {
		tags := make([]string, len(r.Tags))
		for i, t := range r.Tags {
			tags[i] = v.styles.Tag.Render("#" + t)
		}
		lines = append(lines, v.label("標籤")+strings.Join(tags, " "))
	}
	if len(r.FocusTopics) > 0 {
		focus := make([]string, len(r.FocusTopics))
		for i, f := range r.FocusTopics {
			focus[i] = v.styles.Focus.Render("◆" + f)
		}
		lines = append(lines, v.label("考點")+strings.Join(focus, " "))
	}

	if r.Excerpt != "" {
		lines = append(lines, "", v.styles.Subtitle.Render("摘要"))
		wrapWidth := v.width - 4
		if wrapWidth < 20 {
			wrapWidth = 20
		}
		for _, line := range strings.Split(runewidth.Wrap(r.Excerpt, wrapWidth), "\n") {
			lines = append(lines, v.styles.Normal.Render("  "+line))
		}
	}

	if len(v.related) > 0 {
		lines = append(lines, "", v.styles.Subtitle.Render("相關文章"))
		for _, rel := range v.related {
			lines = append(lines, "  "+v.styles.Normal.Render(rel.Record.Title)+" "+
				v.styles.Score.Render(fmt.Sprintf("%g", rel.Similarity)))
		}
	}

	return lines
}

// label renders a padded field label.
func (v *View) label(name string) string {
	return v.styles.Subtitle.Render(runewidth.FillRight(name+":", 12))
}

// field renders a label and a plain value.
func (v *View) field(name, value string) string {
	return v.label(name) + v.styles.Normal.Render(value)
}

// View renders the document details view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("文章資料"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.record == nil {
		b.WriteString(v.styles.Muted.Render("No document selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	end := minInt(v.scrollOffset+visible, len(lines))
	for _, line := range lines[v.scrollOffset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1, end, len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Record returns the displayed record.
func (v *View) Record() *domain.IndexRecord {
	return v.record
}

// Related returns the loaded related documents.
func (v *View) Related() []domain.SimilarityResult {
	return v.related
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
