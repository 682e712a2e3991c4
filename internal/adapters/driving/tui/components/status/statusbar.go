// Package status renders the bottom status line of the TUI.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/keymap"
	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/styles"
)

// State is what the search view is doing.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateHelp      State = "help"
	StateResults   State = "results"
)

// Bar shows the search state on the left and key hints on the right.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	state       State
	message     string
	query       string
	resultCount int
	page        int
	width       int
}

// NewBar creates a status bar. Nil styles or keymap fall back to defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// Init implements the component contract; the bar has no startup work.
func (s *Bar) Init() tea.Cmd { return nil }

// Update is a no-op; the owning view drives the bar through setters.
func (s *Bar) Update(tea.Msg) (*Bar, tea.Cmd) { return s, nil }

// View renders the bar padded to its width.
func (s *Bar) View() string {
	left, right := s.status(), s.hints()
	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) status() string {
	switch s.state {
	case StateSearching:
		if s.query != "" {
			return s.styles.Muted.Render(fmt.Sprintf("Searching 「%s」...", s.query))
		}
		return s.styles.Muted.Render("Searching...")
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	case StateHelp:
		return s.styles.Normal.Render("Help")
	}

	if s.resultCount == 0 {
		return s.styles.Muted.Render("Ready")
	}
	parts := []string{fmt.Sprintf("%d results", s.resultCount)}
	if s.page > 0 {
		parts = append(parts, fmt.Sprintf("page %d", s.page))
	}
	return s.styles.Normal.Render(strings.Join(parts, " · "))
}

func (s *Bar) hints() string {
	bindings := s.keymap.ShortHelp()
	if s.state == StateResults && s.resultCount > 0 {
		bindings = s.keymap.ResultsHelp()
	}

	hints := make([]string, len(bindings))
	for i, b := range bindings {
		hints[i] = b.Help().Key + ": " + b.Help().Desc
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

func (s *Bar) SetState(state State) { s.state = state }
func (s *Bar) State() State { return s.state }
func (s *Bar) SetMessage(msg string) { s.message = msg }
func (s *Bar) Message() string { return s.message }
func (s *Bar) SetResultCount(n int) { s.resultCount = n }
func (s *Bar) ResultCount() int { return s.resultCount }
func (s *Bar) SetWidth(width int) { s.width = width }
func (s *Bar) Width() int { return s.width }
func (s *Bar) Query() string { return s.query }
func (s *Bar) Page() int { return s.page }

// SetQuery sets the query shown while searching.
func (s *Bar) SetQuery(query string) { s.query = query }

// SetPage sets the 1-based result page; zero hides the indicator.
func (s *Bar) SetPage(page int) { s.page = page }

// Clear resets the bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.query = ""
	s.resultCount = 0
	s.page = 0
}
