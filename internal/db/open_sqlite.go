package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/sangama/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

const contentColumns = `id, title, body, community, zone, category, type, subtype, is_visible, sequence, media_url, media_type, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(r rowScanner) (api.Content, error) {
	var c api.Content
	var typ string
	var zone, subtype, mediaURL, mediaType sql.NullString
	if err := r.Scan(&c.ID, &c.Title, &c.Body, &c.Community, &zone, &c.Category, &typ, &subtype,
		&c.Visible, &c.Sequence, &mediaURL, &mediaType, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return api.Content{}, err
	}
	c.Type = api.ContentType(typ)
	c.Zone = zone.String
	c.Subtype = subtype.String
	if mediaURL.String != "" {
		c.Media = &api.Media{URL: mediaURL.String, Type: api.MediaType(mediaType.String)}
	}
	return c, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func insertContentTx(ctx context.Context, tx *sql.Tx, c api.Content) error {
	if c.ID == "" {
		return ErrConflict
	}
	var mediaURL, mediaType string
	if c.Media != nil {
		mediaURL, mediaType = c.Media.URL, string(c.Media.Type)
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO contents(`+contentColumns+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.Title, c.Body, c.Community, nullString(c.Zone), c.Category, string(c.Type), nullString(c.Subtype),
		c.Visible, c.Sequence, nullString(mediaURL), nullString(mediaType), c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("content %s: %w", c.ID, ErrConflict)
		}
		return err
	}
	return nil
}

func (s *sqliteStore) CreateContent(ctx context.Context, c api.Content) (api.Content, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return api.Content{}, err
	}
	defer tx.Rollback()
	c = stamp(c, time.Now())
	if err := insertContentTx(ctx, tx, c); err != nil {
		return api.Content{}, err
	}
	if err := tx.Commit(); err != nil {
		return api.Content{}, err
	}
	return c, nil
}

func (s *sqliteStore) CreateBatch(ctx context.Context, cs []api.Content) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	now := time.Now()
	for _, c := range cs {
		if err := insertContentTx(ctx, tx, stamp(c, now)); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(cs), nil
}

func (s *sqliteStore) GetContent(ctx context.Context, id string) (api.Content, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM contents WHERE id=?`, id)
	c, err := scanContent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return api.Content{}, ErrNotFound
		}
		return api.Content{}, err
	}
	return c, nil
}

// ListContents returns records in sequence order. The fuzzy search runs over
// the filtered rows, so the SQL limit only applies when no search is given.
func (s *sqliteStore) ListContents(ctx context.Context, q api.ListQuery) ([]api.Content, error) {
	conds := []string{}
	args := []any{}
	if q.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(q.Type))
	}
	if q.Community != "" {
		conds = append(conds, "community = ?")
		args = append(args, q.Community)
	}
	if !q.IncludeHidden {
		conds = append(conds, "is_visible = 1")
	}
	if !q.Since.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, q.Since.UTC())
	}
	if !q.Until.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, q.Until.UTC())
	}
	sqlq := `SELECT ` + contentColumns + ` FROM contents`
	if len(conds) > 0 {
		sqlq += "\nWHERE " + strings.Join(conds, " AND ")
	}
	sqlq += "\nORDER BY sequence ASC, created_at ASC, id ASC"
	if strings.TrimSpace(q.Search) == "" {
		limit := q.Limit
		if limit <= 0 {
			limit = defaultListLimit
		}
		sqlq += "\nLIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, sqlq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return finishList(out, q), nil
}

func (s *sqliteStore) DeleteContent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contents WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqliteStore) CountContents(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contents`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (*Store, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if _, err := dbh.ExecContext(ctx, `PRAGMA busy_timeout=5000;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &Store{Contents: &sqliteStore{db: dbh}}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS contents (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  body TEXT NOT NULL,
  community TEXT NOT NULL,
  zone TEXT,
  category TEXT NOT NULL,
  type TEXT NOT NULL,
  subtype TEXT,
  is_visible INTEGER NOT NULL DEFAULT 1,
  sequence INTEGER NOT NULL,
  media_url TEXT,
  media_type TEXT,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contents_type_seq ON contents(type, sequence, created_at);
CREATE INDEX IF NOT EXISTS idx_contents_seq ON contents(sequence, created_at, id);
`)
	return err
}
