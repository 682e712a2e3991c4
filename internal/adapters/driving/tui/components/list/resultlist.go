// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/styles"
	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

// Item is one row of a result list: an index record and its score.
type Item struct {
	Record domain.IndexRecord
	Score  float64
}

// FromQueryResults converts search hits into list items.
func FromQueryResults(results []domain.QueryResult) []Item {
	items := make([]Item, len(results))
	for i := range results {
		items[i] = Item{Record: results[i].Record, Score: results[i].Score}
	}
	return items
}

// FromSimilarityResults converts related documents into list items.
func FromSimilarityResults(results []domain.SimilarityResult) []Item {
	items := make([]Item, len(results))
	for i := range results {
		items[i] = Item{Record: results[i].Record, Score: results[i].Similarity}
	}
	return items
}

// ResultList displays index records in a navigable list.
type ResultList struct {
	title    string
	items    []Item
	selected int
	compact  bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component with a header title.
func NewResultList(s *styles.Styles, title string) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		title:  title,
		styles: s,
		width:  80,
		height: 10,
	}
}

// SetCompact renders one line per item, without labels or excerpt.
func (r *ResultList) SetCompact(compact bool) {
	r.compact = compact
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	header := r.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", r.title, len(r.items)))
	if len(r.items) == 0 {
		return header + "\n\n" + r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.items)+2)
	lines = append(lines, header, "")

	start, end := r.visibleRange()
	for i := start; i < end; i++ {
		lines = append(lines, r.renderItem(i, &r.items[i]))
	}

	return strings.Join(lines, "\n")
}

// visibleRange returns the window of items that fits the height and
// contains the selection.
func (r *ResultList) visibleRange() (int, int) {
	perItem := 3
	if r.compact {
		perItem = 1
	}
	visible := (r.height - 2) / perItem
	if visible < 1 {
		visible = 1
	}

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.items) {
		end = len(r.items)
	}
	return start, end
}

// renderItem formats a single record.
func (r *ResultList) renderItem(index int, item *Item) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := item.Record.Title
	if title == "" {
		title = item.Record.ID
	}
	if item.Record.Author != "" && !r.compact {
		title += " · " + item.Record.Author
	}

	score := fmt.Sprintf("%g", item.Score)
	titleWidth := r.width - runewidth.StringWidth(score) - 6
	if titleWidth < 10 {
		titleWidth = 10
	}
	title = runewidth.FillRight(runewidth.Truncate(title, titleWidth, "..."), titleWidth)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(indicator + title + "  " + score)
	} else {
		titleLine = r.styles.Normal.Render(indicator+title+"  ") + r.styles.Score.Render(score)
	}
	if r.compact {
		return titleLine
	}

	labels := make([]string, 0, len(item.Record.Tags)+len(item.Record.FocusTopics))
	for _, tag := range item.Record.Tags {
		labels = append(labels, r.styles.Tag.Render("#"+tag))
	}
	for _, focus := range item.Record.FocusTopics {
		labels = append(labels, r.styles.Focus.Render("◆"+focus))
	}

	excerptWidth := r.width - 6
	if excerptWidth < 20 {
		excerptWidth = 20
	}
	excerpt := runewidth.Truncate(item.Record.Excerpt, excerptWidth, "...")

	return titleLine + "\n    " + strings.Join(labels, " ") + "\n" + r.styles.Muted.Render("    "+excerpt)
}

// SetItems replaces the list contents and resets the selection.
func (r *ResultList) SetItems(items []Item) {
	r.items = items
	r.selected = 0
}

// Items returns the current items.
func (r *ResultList) Items() []Item {
	return r.items
}

// Selected returns the index of the selected item.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.items) {
		r.selected = index
	}
}

// SelectedItem returns the currently selected item, or nil if none.
func (r *ResultList) SelectedItem() *Item {
	if len(r.items) == 0 || r.selected < 0 || r.selected >= len(r.items) {
		return nil
	}
	return &r.items[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.items)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of items.
func (r *ResultList) Count() int {
	return len(r.items)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.items) == 0
}
