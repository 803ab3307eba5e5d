package render

import "strings"

// Markdown writes sections back out in the markup dialect they were parsed from.
// Blank lines are normalized and leading indentation is dropped, so an
// indented paragraph does not turn into a code block downstream.
func Markdown(sections []Section) string {
	parts := make([]string, 0, len(sections))
	for _, sec := range sections {
		lines := make([]string, 0, len(sec.Blocks))
		for _, b := range sec.Blocks {
			switch b.Kind {
			case BlockHeading:
				lines = append(lines, headingPrefix+b.Text)
			case BlockQuote:
				lines = append(lines, quotePrefix+inlineMarkdown(b.Spans))
			default:
				lines = append(lines, strings.TrimLeft(inlineMarkdown(b.Spans), " \t"))
			}
		}
		parts = append(parts, strings.Join(lines, "\n\n"))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

func inlineMarkdown(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Kind == SpanBold {
			b.WriteString("**")
			b.WriteString(s.Text)
			b.WriteString("**")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
