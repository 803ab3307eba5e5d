package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"github.com/mithrel/sangama/internal/render"
	"github.com/mithrel/sangama/pkg/api"
)

// PrettyStyle is the glamour style used for terminal output.
var PrettyStyle = "dracula"

// Now is the reference time for relative ages.
var Now = time.Now

func newRenderer() (*glamour.TermRenderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(PrettyStyle),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return r, nil
}

// contentMarkdown renders one record as markdown with a metadata header.
func contentMarkdown(c api.Content, heading string) string {
	kind := c.Type.Label()
	if c.Subtype != "" {
		kind += " · " + c.Subtype
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", heading, c.Title)
	fmt.Fprintf(&b, "> **Type:** %s | **Sequence:** %d | **Added:** %s\n>\n", kind, c.Sequence, humanize.RelTime(c.CreatedAt, Now(), "ago", "from now"))
	fmt.Fprintf(&b, "> **ID:** %s", c.ID)
	if !c.Visible {
		b.WriteString(" | hidden")
	}
	b.WriteString("\n\n---\n\n")
	b.WriteString(render.Markdown(render.Render(c.Body)))
	b.WriteString("\n")
	if c.Media.Playable() {
		fmt.Fprintf(&b, "\n%s\n", MediaLine(c.Media))
	}
	return b.String()
}

// MediaLine is the terminal stand-in for a media player.
func MediaLine(m *api.Media) string {
	if !m.Playable() {
		return ""
	}
	sym := "♪"
	switch m.Type {
	case api.MediaVideo:
		sym = "▶"
	case api.MediaImage:
		sym = "▣"
	}
	return fmt.Sprintf("%s %s: %s", sym, m.Type, m.URL)
}

// WritePrettyContent renders a single record with glamour.
func WritePrettyContent(w io.Writer, c api.Content) error {
	return writeMarkdown(w, contentMarkdown(c, "#"))
}

// WritePrettyContents renders records grouped into one section per type.
func WritePrettyContents(w io.Writer, contents []api.Content) error {
	if len(contents) == 0 {
		_, err := io.WriteString(w, "(no content)\n")
		return err
	}
	var b strings.Builder
	for i, tab := range api.GroupByType(contents) {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "# %s\n\n", tab.Type.Label())
		for _, c := range tab.Contents {
			b.WriteString(contentMarkdown(c, "##"))
			b.WriteString("\n")
		}
	}
	return writeMarkdown(w, b.String())
}

// WritePrettySections renders a bare body, as used by `sangama render`.
func WritePrettySections(w io.Writer, sections []render.Section) error {
	return writeMarkdown(w, render.Markdown(sections)+"\n")
}

func writeMarkdown(w io.Writer, md string) error {
	r, err := newRenderer()
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
