package render

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HeadingLevel is the only heading depth the markup knows.
const HeadingLevel = 3

type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockQuote
)

var blockKindNames = map[BlockKind]string{
	BlockParagraph: "paragraph",
	BlockHeading:   "heading",
	BlockQuote:     "quote",
}

func (k BlockKind) String() string {
	if s, ok := blockKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

func (k BlockKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *BlockKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for kind, name := range blockKindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown block kind %q", s)
}

type SpanKind int

const (
	SpanPlain SpanKind = iota
	SpanBold
)

func (k SpanKind) String() string {
	switch k {
	case SpanPlain:
		return "plain"
	case SpanBold:
		return "bold"
	default:
		return fmt.Sprintf("SpanKind(%d)", int(k))
	}
}

func (k SpanKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *SpanKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "plain":
		*k = SpanPlain
	case "bold":
		*k = SpanBold
	default:
		return fmt.Errorf("unknown span kind %q", s)
	}
	return nil
}

// Span is an inline run of text, either plain or bold.
type Span struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
}

// Block is one display element of a section.
// Headings carry Text and Level; quotes and paragraphs carry Spans.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Level int       `json:"level,omitempty"`
	Spans []Span    `json:"spans,omitempty"`
}

// PlainText returns the block's text with inline markers removed.
func (b Block) PlainText() string {
	if b.Kind == BlockHeading {
		return b.Text
	}
	return PlainText(b.Spans)
}

// Section is a run of blocks between rule delimiters.
type Section struct {
	Blocks []Block `json:"blocks"`
}

// PlainText concatenates span texts in order.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
