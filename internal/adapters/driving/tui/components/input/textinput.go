// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studydeck/studydeck-cli/internal/adapters/driving/tui/styles"
)

// maxShownSuggestions bounds the suggestion line.
const maxShownSuggestions = 5

// SearchInput wraps a bubbles textinput with a line of query suggestions.
type SearchInput struct {
	textinput   textinput.Model
	styles      *styles.Styles
	width       int
	suggestions []string
}

// NewSearchInput creates a new search input component.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "篇名、作者、標籤或考點..."
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 50

	return &SearchInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the search input.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the search input and, when present, its suggestions.
func (s *SearchInput) View() string {
	label := s.styles.Title.Render("搜尋 ")
	input := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	line := lipgloss.JoinHorizontal(lipgloss.Center, label, input)

	if len(s.suggestions) == 0 || !s.textinput.Focused() {
		return line
	}

	shown := s.suggestions
	if len(shown) > maxShownSuggestions {
		shown = shown[:maxShownSuggestions]
	}
	hint := s.styles.Muted.Render("  tab ▸ ") + s.styles.Tag.Render(strings.Join(shown, " · "))
	return lipgloss.JoinVertical(lipgloss.Left, line, hint)
}

// Value returns the current input value.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
	s.textinput.CursorEnd()
}

// SetSuggestions replaces the suggestions shown under the input.
func (s *SearchInput) SetSuggestions(suggestions []string) {
	s.suggestions = suggestions
}

// Suggestions returns the current suggestions.
func (s *SearchInput) Suggestions() []string {
	return s.suggestions
}

// AcceptSuggestion replaces the value with the first suggestion.
// It reports whether a suggestion was applied.
func (s *SearchInput) AcceptSuggestion() bool {
	if len(s.suggestions) == 0 {
		return false
	}
	s.SetValue(s.suggestions[0])
	s.suggestions = nil
	return true
}

// Focus sets focus on the input.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	// Account for label and padding
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *SearchInput) Width() int {
	return s.width
}

// Reset clears the input and its suggestions.
func (s *SearchInput) Reset() {
	s.textinput.Reset()
	s.suggestions = nil
}
