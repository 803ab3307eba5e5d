package db

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/mithrel/sangama/internal/util"
	"github.com/mithrel/sangama/pkg/api"
)

// ContentRepo is the content store consumed by the web app, CLI and seeder.
type ContentRepo interface {
	CreateContent(ctx context.Context, c api.Content) (api.Content, error)
	// CreateBatch inserts all records or none of them.
	CreateBatch(ctx context.Context, cs []api.Content) (int, error)
	GetContent(ctx context.Context, id string) (api.Content, error)
	ListContents(ctx context.Context, q api.ListQuery) ([]api.Content, error)
	DeleteContent(ctx context.Context, id string) error
	CountContents(ctx context.Context) (int, error)
}

// Store groups the repositories behind one handle.
type Store struct {
	Contents ContentRepo
}

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

const defaultListLimit = 1000

// Open returns a Store for dsn: "mem://" for an in-memory store,
// "sqlite://path" (or a bare path) for SQLite.
func Open(ctx context.Context, dsn string) (*Store, io.Closer, error) {
	if strings.HasPrefix(dsn, "mem://") {
		m := newMemStore()
		return &Store{Contents: m}, io.NopCloser(nil), nil
	}
	return openSQLite(ctx, dsn)
}

// finishList applies the fuzzy title search and the limit to rows that
// already passed the store filters.
func finishList(rows []api.Content, q api.ListQuery) []api.Content {
	if s := strings.TrimSpace(q.Search); s != "" {
		rows = util.RankByTitle(s, rows)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// stamp fills missing timestamps so rows always sort deterministically.
func stamp(c api.Content, now time.Time) api.Content {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now.UTC()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	return c
}
