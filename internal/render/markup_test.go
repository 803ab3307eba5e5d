package render

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(s string) Span { return Span{Kind: SpanPlain, Text: s} }
func bold(s string) Span  { return Span{Kind: SpanBold, Text: s} }

func para(spans ...Span) Block  { return Block{Kind: BlockParagraph, Spans: spans} }
func quote(spans ...Span) Block { return Block{Kind: BlockQuote, Spans: spans} }
func heading(s string) Block    { return Block{Kind: BlockHeading, Level: HeadingLevel, Text: s} }

func TestRenderEmpty(t *testing.T) {
	got := Render("")
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Blocks)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]Block
	}{
		{
			name: "two paragraphs",
			in:   "line one\nline two",
			want: [][]Block{{para(plain("line one")), para(plain("line two"))}},
		},
		{
			name: "heading then text",
			in:   "### Title\ntext",
			want: [][]Block{{heading("Title"), para(plain("text"))}},
		},
		{
			name: "rule splits sections",
			in:   "a\n---\nb",
			want: [][]Block{{para(plain("a"))}, {para(plain("b"))}},
		},
		{
			name: "quote with bold",
			in:   "> **bold** and plain",
			want: [][]Block{{quote(bold("bold"), plain(" and plain"))}},
		},
		{
			name: "unterminated marker",
			in:   "**unterminated",
			want: [][]Block{{para(plain("**unterminated"))}},
		},
		{
			name: "crlf rule",
			in:   "a\r\n---\r\nb",
			want: [][]Block{{para(plain("a"))}, {para(plain("b"))}},
		},
		{
			name: "long indented rule between blank lines",
			in:   "a\n\n  -----  \n\nb",
			want: [][]Block{{para(plain("a"))}, {para(plain("b"))}},
		},
		{
			name: "nbsp padded rule",
			in:   "a\n\u00a0---\u00a0\nb",
			want: [][]Block{{para(plain("a"))}, {para(plain("b"))}},
		},
		{
			name: "vertical tab and bom before rule",
			in:   "a\n\v\ufeff---\u2028\nb",
			want: [][]Block{{para(plain("a"))}, {para(plain("b"))}},
		},
		{
			name: "spaced hyphens are text",
			in:   "- - -\n--",
			want: [][]Block{{para(plain("- - -")), para(plain("--"))}},
		},
		{
			name: "leading rule yields empty first section",
			in:   "\n---\nbody",
			want: [][]Block{{}, {para(plain("body"))}},
		},
		{
			name: "heading keeps markers",
			in:   "### **Om** Shanti",
			want: [][]Block{{heading("**Om** Shanti")}},
		},
		{
			name: "indented heading and quote are trimmed",
			in:   "   ### Verse 1  \n   > quoted  ",
			want: [][]Block{{heading("Verse 1"), quote(plain("quoted"))}},
		},
		{
			name: "paragraph whitespace preserved",
			in:   "  two  spaces inside ",
			want: [][]Block{{para(plain("  two  spaces inside "))}},
		},
		{
			name: "prefixes need a space",
			in:   "###Title\n>quote",
			want: [][]Block{{para(plain("###Title")), para(plain(">quote"))}},
		},
		{
			name: "blank lines dropped",
			in:   "a\n\n   \n\tb\n",
			want: [][]Block{{para(plain("a")), para(plain("\tb"))}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Render(tc.in)
			require.Len(t, got, len(tc.want))
			for i, sec := range got {
				if len(tc.want[i]) == 0 {
					assert.Empty(t, sec.Blocks, "section %d", i)
					continue
				}
				assert.Equal(t, tc.want[i], sec.Blocks, "section %d", i)
			}
		})
	}
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		in   string
		want []Span
	}{
		{"plain", []Span{plain("plain")}},
		{"a **b** c **d**", []Span{plain("a "), bold("b"), plain(" c "), bold("d")}},
		{"**a** **b", []Span{bold("a"), plain(" **b")}},
		{"**whole**", []Span{bold("whole")}},
		{"***x***", []Span{bold("*x"), plain("*")}},
		{"**ॐ नमः शिवाय** sung daily", []Span{bold("ॐ नमः शिवाय"), plain(" sung daily")}},
		{"a ** b", []Span{plain("a ** b")}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseInline(tc.in), "input %q", tc.in)
	}
	assert.Empty(t, ParseInline("****"))
}

func TestRenderPreservesLineText(t *testing.T) {
	in := "### Title\n\n> Be **still** and know\nplain **bold** tail **open\n---\n  last line"
	var got []string
	for _, sec := range Render(in) {
		for _, b := range sec.Blocks {
			got = append(got, b.PlainText())
		}
	}
	want := []string{"Title", "Be still and know", "plain bold tail **open", "  last line"}
	assert.Equal(t, want, got)
}

func TestRenderDeterministic(t *testing.T) {
	in := "### A\n> **q**\np\n---\nx **y**"
	first := Render(in)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, first, Render(in))
		}()
	}
	wg.Wait()
}

func TestMarkdownRoundTrip(t *testing.T) {
	in := "### Verse\n> **Om** tat sat\nline **one**\n---\nsecond"
	md := Markdown(Render(in))
	assert.Equal(t, "### Verse\n\n> **Om** tat sat\n\nline **one**\n\n---\n\nsecond", md)
	assert.Equal(t, Render(in), Render(md))
}

func TestMarkdownDropsIndentation(t *testing.T) {
	md := Markdown(Render("    indented"))
	assert.False(t, strings.HasPrefix(md, " "))
	assert.Equal(t, "indented", md)
}

func TestBlockJSON(t *testing.T) {
	b, err := json.Marshal(Section{Blocks: []Block{heading("T"), quote(bold("b"), plain(" x"))}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"blocks":[
		{"kind":"heading","text":"T","level":3},
		{"kind":"quote","spans":[{"kind":"bold","text":"b"},{"kind":"plain","text":" x"}]}
	]}`, string(b))

	var back Section
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, BlockQuote, back.Blocks[1].Kind)
	assert.Equal(t, SpanBold, back.Blocks[1].Spans[0].Kind)
}
