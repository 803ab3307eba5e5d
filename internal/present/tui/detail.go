package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/sangama/internal/present/format"
	"github.com/mithrel/sangama/internal/render"
	"github.com/mithrel/sangama/pkg/api"
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("245"))
	activeTabStyle = tabStyle.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("130")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("173"))
	quoteStyle   = lipgloss.NewStyle().Italic(true).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("130")).
			PaddingLeft(1)
	boldStyle = lipgloss.NewStyle().Bold(true)
	ruleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// renderDetail lays out one record block by block for the viewport.
func renderDetail(c api.Content, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Title) + "\n")
	meta := c.Type.Label()
	if c.Subtype != "" {
		meta += " · " + c.Subtype
	}
	meta += " · " + c.CreatedAt.Local().Format("2 Jan 2006")
	b.WriteString(metaStyle.Render(meta) + "\n\n")

	b.WriteString(renderSections(render.Render(c.Body), width))
	if line := format.MediaLine(c.Media); line != "" {
		b.WriteString("\n" + metaStyle.Render(line) + "\n")
	}
	return b.String()
}

func renderSections(sections []render.Section, width int) string {
	parts := make([]string, 0, len(sections))
	for _, sec := range sections {
		lines := make([]string, 0, len(sec.Blocks))
		for _, blk := range sec.Blocks {
			lines = append(lines, renderBlock(blk, width))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n"+ruleStyle.Render(strings.Repeat("─", width))+"\n") + "\n"
}

func renderBlock(blk render.Block, width int) string {
	switch blk.Kind {
	case render.BlockHeading:
		return headingStyle.Render(blk.Text)
	case render.BlockQuote:
		return quoteStyle.Width(width).Render(renderSpans(blk.Spans))
	default:
		return lipgloss.NewStyle().Width(width).Render(renderSpans(blk.Spans))
	}
}

func renderSpans(spans []render.Span) string {
	var b strings.Builder
	for _, sp := range spans {
		if sp.Kind == render.SpanBold {
			b.WriteString(boldStyle.Render(sp.Text))
			continue
		}
		b.WriteString(sp.Text)
	}
	return b.String()
}
