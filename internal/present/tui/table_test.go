package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/sangama/internal/render"
	"github.com/mithrel/sangama/pkg/api"
)

type fakeDeleter struct {
	ids []string
	err error
}

func (f *fakeDeleter) DeleteContent(ctx context.Context, id string) error {
	f.ids = append(f.ids, id)
	return f.err
}

func makeContents() []api.Content {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return []api.Content{
		{ID: "q1", Title: "Arise", Type: api.TypeQuote, Sequence: 1, Visible: true, CreatedAt: now, Body: "> **Arise**, awake"},
		{ID: "s1", Title: "Gita 2.47", Type: api.TypeShloka, Sequence: 1, Visible: true, CreatedAt: now, Body: "### Meaning\nact\n---\nfruit"},
		{ID: "q2", Title: "Self", Type: api.TypeQuote, Sequence: 2, CreatedAt: now, Body: "x",
			Media: &api.Media{URL: "https://example.com/a.mp3", Type: api.MediaAudio}},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, k string) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key(k))
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func TestTabsFollowFirstSeenOrder(t *testing.T) {
	m := newModel(context.Background(), makeContents(), nil, true)
	require.Len(t, m.tabs, 2)
	assert.Equal(t, api.TypeQuote, m.tabs[0].Type)
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, "Self (hidden) ♪", m.table.Rows()[1][1])

	m, _ = press(t, m, "right")
	assert.Equal(t, 1, m.active)
	assert.Len(t, m.table.Rows(), 1)

	m, _ = press(t, m, "right")
	assert.Equal(t, 0, m.active)
	m, _ = press(t, m, "left")
	assert.Equal(t, 1, m.active)

	view := m.View()
	assert.Contains(t, view, "Quote (2)")
	assert.Contains(t, view, "Shloka (1)")
	assert.Contains(t, view, "1 records")
}

func TestDetailOpenAndBack(t *testing.T) {
	m := newModel(context.Background(), makeContents(), nil, true)
	m, _ = press(t, m, "right")
	m, _ = press(t, m, "enter")
	require.NotNil(t, m.detail)
	assert.Equal(t, "s1", m.detailItem.ID)
	view := m.View()
	assert.Contains(t, view, "Gita 2.47")
	assert.Contains(t, view, "Meaning")
	assert.Contains(t, view, "esc=back")

	m, cmd := press(t, m, "esc")
	assert.Nil(t, m.detail)
	assert.Nil(t, cmd)

	_, cmd = press(t, m, "q")
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestDelete(t *testing.T) {
	del := &fakeDeleter{}
	m := newModel(context.Background(), makeContents(), del, true)
	m, _ = press(t, m, "right")
	m, cmd := press(t, m, "d")
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, []string{"s1"}, del.ids)

	next, _ := m.Update(msg)
	m = next.(model)
	require.Len(t, m.tabs, 1)
	assert.Equal(t, 0, m.active)
	assert.Contains(t, m.status, "Deleted s1")

	del.err = errors.New("boom")
	m, cmd = press(t, m, "d")
	next, _ = m.Update(cmd())
	m = next.(model)
	assert.Contains(t, m.status, "Delete failed: boom")
	assert.Len(t, m.table.Rows(), 2)
}

func TestRenderDetail(t *testing.T) {
	out := renderDetail(makeContents()[2], 40)
	assert.Contains(t, out, "Self")
	assert.Contains(t, out, "Quote · 1 Jan 2026")
	assert.Contains(t, out, "♪ audio: https://example.com/a.mp3")

	out = renderSections(render.Render("### a\nb\n---\nc"), 10)
	assert.Equal(t, 10, strings.Count(out, "─"))
	assert.Contains(t, out, "a\n")
}
