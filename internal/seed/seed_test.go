package seed

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/sangama/internal/db"
	"github.com/mithrel/sangama/internal/render"
	"github.com/mithrel/sangama/pkg/api"
)

func TestLoadSamples(t *testing.T) {
	records, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, records)

	seen := map[api.ContentType]bool{}
	for _, c := range records {
		assert.NotEmpty(t, c.Title)
		assert.NotEmpty(t, c.Body, c.Title)
		assert.Empty(t, c.ID)
		assert.GreaterOrEqual(t, c.Sequence, 1, c.Title)
		if c.Media != nil {
			assert.True(t, c.Media.Playable(), c.Title)
		}
		seen[c.Type] = true
		for _, sec := range render.Render(c.Body) {
			assert.NotEmpty(t, sec.Blocks, "%s has an empty section", c.Title)
		}
	}
	for _, typ := range api.ContentTypes() {
		assert.True(t, seen[typ], "no sample for %s", typ)
	}
}

func TestParseRejectsUnknownType(t *testing.T) {
	_, err := Parse([]byte("- title: x\n  type: sermon\n  content: y\n"))
	assert.ErrorContains(t, err, "unknown type")

	records, err := Parse([]byte("- title: x\n  type: quote\n  content: y\n  is_visible: false\n"))
	require.NoError(t, err)
	assert.False(t, records[0].Visible)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	store, _, err := db.Open(ctx, "mem://")
	require.NoError(t, err)

	var logs bytes.Buffer
	fixed := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	opts := Options{Now: func() time.Time { return fixed }, Log: log.New(&logs, "", 0)}

	n, err := Run(ctx, store.Contents, opts)
	require.NoError(t, err)
	samples, _ := Load()
	assert.Equal(t, len(samples), n)
	assert.Contains(t, logs.String(), "seeded content")

	all, err := store.Contents.ListContents(ctx, api.ListQuery{IncludeHidden: true})
	require.NoError(t, err)
	require.Len(t, all, n)
	for _, c := range all {
		assert.NotEmpty(t, c.ID)
		assert.True(t, fixed.Equal(c.CreatedAt))
	}

	_, err = Run(ctx, store.Contents, opts)
	assert.ErrorIs(t, err, ErrNotEmpty)

	opts.Force = true
	opts.Records = samples[:1]
	n, err = Run(ctx, store.Contents, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
