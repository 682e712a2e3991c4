// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/components/input"
	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/components/list"
	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/components/status"
	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/keymap"
	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/messages"
	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/styles"
	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driving"
)

// ErrNoSearchService is reported when the view was built without a search
// service.
var ErrNoSearchService = errors.New("search service is required")

// sideBySideWidth is the terminal width from which the related pane is
// drawn next to the results instead of below them.
const sideBySideWidth = 100

// View represents the search view with input, results, related documents
// and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	related   *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context

	// query is the last submitted query; offset its current page start.
	query    string
	offset   int
	pageSize int

	popular []domain.SearchTerm

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = input mode (typing), false = results mode (navigating)
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	related := list.NewResultList(s, "相關文章")
	related.SetCompact(true)

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s, "搜尋結果"),
		related:       related,
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		pageSize:      domain.DefaultSearchLimit,
		width:         80,
		height:        24,
		focusInput:    true, // Start in input mode
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetPageSize sets the number of results requested per page.
func (v *View) SetPageSize(size int) {
	if size > 0 {
		v.pageSize = size
	}
}

// Init starts the cursor blink and loads popular searches.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadPopular())
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		return v, v.handleSearchCompleted(msg)

	case messages.SuggestionsLoaded:
		// Drop completions for a value the user has since changed.
		if msg.Err == nil && msg.Query == v.input.Value() {
			v.input.SetSuggestions(msg.Suggestions)
		}
		return v, nil

	case messages.PopularLoaded:
		if msg.Err == nil {
			v.popular = msg.Terms
		}
		return v, nil

	case messages.RelatedLoaded:
		selected := v.list.SelectedItem()
		if msg.Err == nil && selected != nil && selected.Record.ID == msg.DocumentID {
			v.related.SetItems(list.FromSimilarityResults(msg.Results))
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleResultsKey(msg)
}

// handleInputKey processes keys while the query is being typed.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		return v, v.submit(query, 0)

	case tea.KeyTab:
		if v.input.AcceptSuggestion() {
			return v, v.loadSuggestions(v.input.Value())
		}
		return v, nil

	case tea.KeyEsc:
		// Back to the previous results, if any.
		if !v.list.IsEmpty() {
			v.focusResults()
		}
		return v, nil
	}

	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)

	after := v.input.Value()
	if after == before {
		return v, cmd
	}
	if strings.TrimSpace(after) == "" {
		v.input.SetSuggestions(nil)
		return v, cmd
	}
	return v, tea.Batch(cmd, v.loadSuggestions(after))
}

// handleResultsKey processes keys while navigating results.
func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Up):
		return v, v.moveSelection(v.list.MoveUp)

	case keymap.Matches(k, v.keymap.Down):
		return v, v.moveSelection(v.list.MoveDown)

	case keymap.Matches(k, v.keymap.Open):
		item := v.list.SelectedItem()
		if item == nil {
			return v, nil
		}
		record := item.Record
		return v, func() tea.Msg {
			return messages.DocumentSelected{Record: record}
		}

	case keymap.Matches(k, v.keymap.NextPage):
		// A short page is the last one.
		if v.list.Count() < v.pageSize {
			return v, nil
		}
		return v, v.submit(v.query, v.offset+v.pageSize)

	case keymap.Matches(k, v.keymap.PrevPage):
		if v.offset == 0 {
			return v, nil
		}
		offset := v.offset - v.pageSize
		if offset < 0 {
			offset = 0
		}
		return v, v.submit(v.query, offset)

	case keymap.Matches(k, v.keymap.NewSearch), keymap.Matches(k, v.keymap.Back):
		v.focusInput = true
		cmd := v.input.Focus()
		if keymap.Matches(k, v.keymap.NewSearch) {
			v.input.Reset()
		}
		return v, cmd

	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}

	case keymap.Matches(k, v.keymap.Quit):
		return v, func() tea.Msg {
			return messages.Quit{}
		}
	}

	return v, nil
}

// moveSelection applies move and loads related documents when the
// selection changed.
func (v *View) moveSelection(move func()) tea.Cmd {
	before := v.list.Selected()
	move()
	if v.list.Selected() == before {
		return nil
	}
	v.related.SetItems(nil)
	return v.loadRelated()
}

// submit starts a search for one page of results.
func (v *View) submit(query string, offset int) tea.Cmd {
	v.query = query
	v.offset = offset
	v.input.SetSuggestions(nil)
	v.statusbar.SetQuery(query)
	v.statusbar.SetState(status.StateSearching)
	return v.performSearch(query, offset)
}

// performSearch executes a search and returns results.
func (v *View) performSearch(query string, offset int) tea.Cmd {
	limit := v.pageSize
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}

		results, err := v.searchService.Search(v.ctx, query, domain.SearchOptions{
			Limit:  limit,
			Offset: offset,
		})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// loadSuggestions fetches completions for a partial query.
func (v *View) loadSuggestions(query string) tea.Cmd {
	if v.searchService == nil {
		return nil
	}
	return func() tea.Msg {
		suggestions, err := v.searchService.Suggest(v.ctx, query, domain.DefaultSuggestLimit)
		return messages.SuggestionsLoaded{Query: query, Suggestions: suggestions, Err: err}
	}
}

// loadPopular fetches the most frequent searches.
func (v *View) loadPopular() tea.Cmd {
	if v.searchService == nil {
		return nil
	}
	return func() tea.Msg {
		terms, err := v.searchService.Popular(v.ctx, domain.DefaultPopularLimit)
		return messages.PopularLoaded{Terms: terms, Err: err}
	}
}

// loadRelated fetches documents related to the selected result.
func (v *View) loadRelated() tea.Cmd {
	item := v.list.SelectedItem()
	if item == nil || v.searchService == nil {
		return nil
	}
	id := item.Record.ID
	return func() tea.Msg {
		results, err := v.searchService.Related(v.ctx, id, domain.DefaultRelatedLimit)
		return messages.RelatedLoaded{DocumentID: id, Results: results, Err: err}
	}
}

// handleSearchCompleted processes search results.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) tea.Cmd {
	// Ignore results of a query that has been superseded.
	if msg.Query != v.query {
		return nil
	}
	if msg.Err != nil {
		v.setError(msg.Err)
		return nil
	}

	v.err = nil
	v.list.SetItems(list.FromQueryResults(msg.Results))
	v.related.SetItems(nil)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Results))
	v.statusbar.SetPage(v.offset/v.pageSize + 1)

	if v.list.IsEmpty() {
		return nil
	}
	v.focusResults()
	return v.loadRelated()
}

// focusResults switches to results mode.
func (v *View) focusResults() {
	v.focusInput = false
	v.input.Blur()
}

// setError records err and shows it in the status bar.
func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	if err != nil {
		v.statusbar.SetMessage(err.Error())
	}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("StudyDeck"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	switch {
	case v.query == "" && len(v.popular) > 0:
		sections = append(sections, v.renderPopular())
	case v.related.IsEmpty():
		sections = append(sections, v.list.View())
	default:
		sections = append(sections, v.renderResults())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderResults draws the result list with the related pane.
func (v *View) renderResults() string {
	pane := v.styles.Pane.Render(v.related.View())
	if v.width >= sideBySideWidth {
		return lipgloss.JoinHorizontal(lipgloss.Top, v.list.View(), "  ", pane)
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.list.View(), "", pane)
}

// renderPopular draws the popular searches shown before the first query.
func (v *View) renderPopular() string {
	terms := make([]string, len(v.popular))
	for i, t := range v.popular {
		terms[i] = v.styles.Tag.Render(t.Term) + v.styles.Muted.Render(fmt.Sprintf("(%d)", t.Count))
	}
	return v.styles.Subtitle.Render("熱門搜尋") + "\n\n" + strings.Join(terms, "  ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	listWidth, relatedWidth := width, width
	listHeight, relatedHeight := height-10, 8 // header, input, status
	if width >= sideBySideWidth {
		relatedWidth = width / 3
		listWidth = width - relatedWidth - 4
		relatedHeight = listHeight
	} else {
		listHeight -= relatedHeight
	}

	v.input.SetWidth(width)
	v.list.SetDimensions(listWidth, listHeight)
	v.related.SetDimensions(relatedWidth-4, relatedHeight)
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current input value.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the input value.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Offset returns the start of the current result page.
func (v *View) Offset() int {
	return v.offset
}

// Results returns the current result items.
func (v *View) Results() []list.Item {
	return v.list.Items()
}

// Related returns the documents related to the selected result.
func (v *View) Related() []list.Item {
	return v.related.Items()
}

// Popular returns the loaded popular searches.
func (v *View) Popular() []domain.SearchTerm {
	return v.popular
}

// Suggestions returns the completions shown under the input.
func (v *View) Suggestions() []string {
	return v.input.Suggestions()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// ClearError clears the current error.
func (v *View) ClearError() {
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// Reset resets the view to initial input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.Reset()
	v.list.SetItems(nil)
	v.related.SetItems(nil)
	v.query = ""
	v.offset = 0
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
