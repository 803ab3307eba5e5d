package render

import (
	"regexp"
	"strings"
)

var (
	// ruleSep matches an isolated line of three or more hyphens together with
	// the newlines around it. The padding class covers Unicode spaces (NBSP,
	// BOM, line/paragraph separators) as well as ASCII whitespace.
	ruleSep = regexp.MustCompile(`\n[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]*-{3,}[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]*\n`)
	boldRun = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

const (
	headingPrefix = "### "
	quotePrefix   = "> "
)

// Render converts a content body into display sections.
// It never fails: unpaired markers and missing delimiters degrade to plain text.
func Render(content string) []Section {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	raw := ruleSep.Split(content, -1)
	out := make([]Section, 0, len(raw))
	for _, sec := range raw {
		out = append(out, renderSection(sec))
	}
	return out
}

func renderSection(sec string) Section {
	lines := strings.Split(sec, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		if b, ok := classifyLine(line); ok {
			blocks = append(blocks, b)
		}
	}
	return Section{Blocks: blocks}
}

// classifyLine maps one source line to a block; blank lines yield ok=false.
func classifyLine(line string) (Block, bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return Block{}, false
	case strings.HasPrefix(trimmed, headingPrefix):
		// Headings are emitted verbatim; inline markers stay as typed.
		return Block{Kind: BlockHeading, Level: HeadingLevel, Text: trimmed[len(headingPrefix):]}, true
	case strings.HasPrefix(trimmed, quotePrefix):
		return Block{Kind: BlockQuote, Spans: ParseInline(trimmed[len(quotePrefix):])}, true
	default:
		return Block{Kind: BlockParagraph, Spans: ParseInline(line)}, true
	}
}

// ParseInline splits a line into plain and bold spans. Bold runs are
// delimited by "**" pairs on the same line; empty spans are dropped.
func ParseInline(line string) []Span {
	matches := boldRun.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return []Span{{Kind: SpanPlain, Text: line}}
	}
	spans := make([]Span, 0, 2*len(matches)+1)
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			spans = append(spans, Span{Kind: SpanPlain, Text: line[pos:m[0]]})
		}
		if m[3] > m[2] {
			spans = append(spans, Span{Kind: SpanBold, Text: line[m[2]:m[3]]})
		}
		pos = m[1]
	}
	if pos < len(line) {
		spans = append(spans, Span{Kind: SpanPlain, Text: line[pos:]})
	}
	return spans
}
