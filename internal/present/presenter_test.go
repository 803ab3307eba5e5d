package present

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/sangama/pkg/api"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"plain": ModePlain, "pretty": ModePretty, "json": ModeJSON, "ndjson": ModeNDJSON, "tui": ModeTUI} {
		got, ok := ParseMode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseMode("yaml")
	assert.False(t, ok)
}

func TestRenderContent(t *testing.T) {
	c := api.Content{ID: "a", Title: "T", Type: api.TypeQuote, Sequence: 1}
	var buf bytes.Buffer
	require.NoError(t, RenderContent(context.Background(), &buf, c, Options{Mode: ModeNDJSON}))
	assert.Contains(t, buf.String(), `"id":"a"`)

	err := RenderContent(context.Background(), &buf, c, Options{Mode: ModeTUI})
	assert.Error(t, err)

	buf.Reset()
	require.NoError(t, RenderContents(context.Background(), &buf, []api.Content{c}, Options{Mode: ModePlain}))
	assert.Equal(t, []string{"a", "quote", "1", "T", "0"}, bytesFields(buf))
}

func bytesFields(buf bytes.Buffer) []string {
	out := []string{}
	for _, f := range bytes.Fields(buf.Bytes()) {
		out = append(out, string(f))
	}
	return out
}
