package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/sangama/pkg/api"
)

// Deleter removes a record; the browser uses it for the d key.
type Deleter interface {
	DeleteContent(ctx context.Context, id string) error
}

// Browse opens an interactive Bubble Tea browser with one tab per content type.
func Browse(ctx context.Context, contents []api.Content, del Deleter, headers bool) error {
	m := newModel(ctx, contents, del, headers)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type model struct {
	ctx     context.Context
	del     Deleter
	tabs    []api.Tab
	active  int
	table   table.Model
	headers bool

	detail     *viewport.Model
	detailItem api.Content

	width        int
	height       int
	status       string
	lastDuration time.Duration
}

func newModel(ctx context.Context, contents []api.Content, del Deleter, headers bool) model {
	m := model{ctx: ctx, del: del, tabs: api.GroupByType(contents), headers: headers}
	m.table = table.New(table.WithColumns(m.columnsFor(4, 40, 16)), table.WithFocused(true))
	m.updateRows()
	m.applyStyles()
	return m
}

func (m *model) current() []api.Content {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active].Contents
}

func (m *model) updateRows() {
	contents := m.current()
	rows := make([]table.Row, 0, len(contents))
	for _, c := range contents {
		title := c.Title
		if !c.Visible {
			title += " (hidden)"
		}
		if c.Media.Playable() {
			title += " ♪"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(c.Sequence),
			title,
			c.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m *model) switchTab(delta int) {
	if len(m.tabs) == 0 {
		return
	}
	m.active = (m.active + delta + len(m.tabs)) % len(m.tabs)
	m.table.SetCursor(0)
	m.updateRows()
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case deleteResultMsg:
		m.lastDuration = msg.dur
		if msg.err != nil {
			m.status = fmt.Sprintf("Delete failed: %v", msg.err)
			return m, nil
		}
		m.removeID(msg.id)
		m.status = fmt.Sprintf("Deleted %s", msg.id)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		if m.detail != nil {
			m.openDetail(m.detailItem)
		}
		return m, nil
	case tea.KeyMsg:
		if m.detail != nil {
			switch msg.String() {
			case "esc", "backspace":
				m.detail = nil
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
			vp, cmd := m.detail.Update(msg)
			m.detail = &vp
			return m, cmd
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "right", "l", "tab":
			m.switchTab(1)
			return m, nil
		case "left", "h", "shift+tab":
			m.switchTab(-1)
			return m, nil
		case "enter":
			if c, ok := m.selected(); ok {
				m.openDetail(c)
			}
			return m, nil
		case "d":
			if c, ok := m.selected(); ok && m.del != nil {
				m.status = fmt.Sprintf("Deleting %s…", c.ID)
				return m, deleteCmd(m.ctx, m.del, c.ID)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) selected() (api.Content, bool) {
	contents := m.current()
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(contents) {
		return api.Content{}, false
	}
	return contents[idx], true
}

func (m *model) removeID(id string) {
	for ti, tab := range m.tabs {
		for i, c := range tab.Contents {
			if c.ID != id {
				continue
			}
			m.tabs[ti].Contents = append(tab.Contents[:i:i], tab.Contents[i+1:]...)
			if len(m.tabs[ti].Contents) == 0 {
				m.tabs = append(m.tabs[:ti:ti], m.tabs[ti+1:]...)
				if m.active >= len(m.tabs) {
					m.active = max(0, len(m.tabs)-1)
				}
			}
			m.updateRows()
			return
		}
	}
}

func (m *model) openDetail(c api.Content) {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	vp := viewport.New(w, max(3, h-2))
	vp.SetContent(renderDetail(c, max(20, w-4)))
	m.detail = &vp
	m.detailItem = c
}

func (m model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		label := fmt.Sprintf("%s (%d)", tab.Type.Label(), len(tab.Contents))
		if i == m.active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m model) renderFooter(left string) string {
	var right string
	if m.status != "" {
		if m.lastDuration > 0 {
			right = fmt.Sprintf("%s (%s) • ", m.status, m.lastDuration)
		} else {
			right = m.status + " • "
		}
	}
	right += fmt.Sprintf("%d records ", len(m.current()))

	width := m.width
	if width <= 0 {
		width = m.table.Width()
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return footerStyle.Render(left + strings.Repeat(" ", space) + right)
}

func (m model) View() string {
	if len(m.tabs) == 0 {
		return "(no content) \n"
	}
	if m.detail != nil {
		return m.detail.View() + "\n" + m.renderFooter("↑/↓ scroll • esc=back • q=exit") + "\n"
	}
	return m.renderTabs() + "\n" + m.table.View() + "\n" +
		m.renderFooter("←/→ tab • ↑/↓ navigate • enter=show • d=delete • q=exit") + "\n"
}

// deleteResultMsg conveys the outcome of a delete operation back to Update.
type deleteResultMsg struct {
	id  string
	err error
	dur time.Duration
}

func deleteCmd(ctx context.Context, del Deleter, id string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := del.DeleteContent(ctx, id)
		return deleteResultMsg{id: id, err: err, dur: time.Since(start).Round(time.Millisecond)}
	}
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(4, m.height-3))
	m.table.SetWidth(m.width)
	seqW, createdW := 4, 16
	titleW := m.width - seqW - createdW - 8
	if titleW < 12 {
		titleW = 12
	}
	m.table.SetColumns(m.columnsFor(seqW, titleW, createdW))
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	if m.headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("130")).
		Bold(false)
	m.table.SetStyles(s)
}

// columnsFor returns columns with or without titles based on the headers flag.
func (m *model) columnsFor(seqW, titleW, createdW int) []table.Column {
	if m.headers {
		return []table.Column{
			{Title: "#", Width: seqW},
			{Title: "Title", Width: titleW},
			{Title: "Added", Width: createdW},
		}
	}
	return []table.Column{
		{Title: "", Width: seqW},
		{Title: "", Width: titleW},
		{Title: "", Width: createdW},
	}
}
