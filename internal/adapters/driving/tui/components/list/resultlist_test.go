package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

func testItems() []Item {
	return FromQueryResults([]domain.QueryResult{
		{
			Record: domain.IndexRecord{
				ID:          "xunzi",
				Title:       "勸學",
				Author:      "荀子",
				Tags:        []string{"儒家"},
				FocusTopics: []string{"比喻論證"},
				Excerpt:     "君子曰：學不可以已。",
			},
			Score: 20,
		},
		{Record: domain.IndexRecord{ID: "mengzi", Title: "魚我所欲也"}, Score: 16},
		{Record: domain.IndexRecord{ID: "untitled"}, Score: 7},
	})
}

func TestFromSimilarityResults(t *testing.T) {
	items := FromSimilarityResults([]domain.SimilarityResult{
		{Record: domain.IndexRecord{ID: "a"}, Similarity: 10},
	})
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Record.ID)
	assert.Equal(t, float64(10), items[0].Score)
}

func TestNewResultList(t *testing.T) {
	r := NewResultList(nil, "Results")

	require.NotNil(t, r)
	assert.NotNil(t, r.styles)
	assert.True(t, r.IsEmpty())
	assert.Nil(t, r.SelectedItem())
	assert.Nil(t, r.Init())
}

func TestResultList_Navigation(t *testing.T) {
	r := NewResultList(nil, "Results")
	r.SetItems(testItems())

	assert.Equal(t, 3, r.Count())
	assert.Equal(t, 0, r.Selected())

	r.MoveUp()
	assert.Equal(t, 0, r.Selected())

	r.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, r.Selected())
	r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, r.Selected())
	r.MoveDown()
	assert.Equal(t, 2, r.Selected())

	r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, r.Selected())
	r.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, r.Selected())

	require.NotNil(t, r.SelectedItem())
	assert.Equal(t, "xunzi", r.SelectedItem().Record.ID)
}

func TestResultList_SetSelected(t *testing.T) {
	r := NewResultList(nil, "Results")
	r.SetItems(testItems())

	r.SetSelected(2)
	assert.Equal(t, 2, r.Selected())
	r.SetSelected(5)
	assert.Equal(t, 2, r.Selected())
	r.SetSelected(-1)
	assert.Equal(t, 2, r.Selected())

	r.SetItems(testItems())
	assert.Equal(t, 0, r.Selected())
}

func TestResultList_View(t *testing.T) {
	r := NewResultList(nil, "Results")
	assert.Contains(t, r.View(), "No results")

	r.SetItems(testItems())
	r.SetDimensions(80, 20)
	view := r.View()

	assert.Contains(t, view, "Results (3)")
	assert.Contains(t, view, "> 勸學 · 荀子")
	assert.Contains(t, view, "#儒家")
	assert.Contains(t, view, "◆比喻論證")
	assert.Contains(t, view, "君子曰")
	assert.Contains(t, view, "untitled")
}

func TestResultList_CompactView(t *testing.T) {
	r := NewResultList(nil, "Related")
	r.SetCompact(true)
	r.SetItems(testItems())
	r.SetDimensions(40, 10)

	view := r.View()
	assert.Contains(t, view, "勸學")
	assert.NotContains(t, view, "荀子")
	assert.NotContains(t, view, "#儒家")
}

func TestResultList_LongTitleFitsWidth(t *testing.T) {
	r := NewResultList(nil, "Results")
	r.SetCompact(true)
	r.SetItems([]Item{{Record: domain.IndexRecord{ID: "long", Title: strings.Repeat("學", 100)}, Score: 1}})
	r.SetDimensions(40, 10)

	for _, line := range strings.Split(r.View(), "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 40)
	}
	assert.Contains(t, r.View(), "...")
}

func TestResultList_ScrollsToSelection(t *testing.T) {
	items := make([]Item, 10)
	for i := range items {
		items[i] = Item{Record: domain.IndexRecord{ID: string(rune('a' + i)), Title: string(rune('A' + i))}}
	}

	r := NewResultList(nil, "Results")
	r.SetCompact(true)
	r.SetItems(items)
	r.SetDimensions(40, 5)
	r.SetSelected(8)

	view := r.View()
	assert.Contains(t, view, "> I")
	assert.NotContains(t, view, "  A ")
}

func TestResultList_Dimensions(t *testing.T) {
	r := NewResultList(nil, "Results")
	r.SetDimensions(100, 30)

	assert.Equal(t, 100, r.Width())
	assert.Equal(t, 30, r.Height())
}
