package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/mithrel/sangama/internal/db"
	"github.com/mithrel/sangama/pkg/api"
)

//go:embed sample.yaml
var sampleYAML []byte

// ErrNotEmpty is returned when seeding a store that already has content.
var ErrNotEmpty = errors.New("content store is not empty")

// item mirrors one YAML sample record; IDs and timestamps are assigned at seed time.
type item struct {
	Title     string     `yaml:"title"`
	Content   string     `yaml:"content"`
	Community string     `yaml:"community"`
	Zone      string     `yaml:"zone"`
	Category  string     `yaml:"category"`
	Type      string     `yaml:"type"`
	Subtype   string     `yaml:"subtype"`
	Visible   *bool      `yaml:"is_visible"`
	Sequence  int        `yaml:"sequence"`
	Media     *api.Media `yaml:"media"`
}

// Load decodes the embedded sample content.
func Load() ([]api.Content, error) {
	return Parse(sampleYAML)
}

// Parse decodes a YAML list of sample records.
func Parse(data []byte) ([]api.Content, error) {
	var items []item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode sample content: %w", err)
	}
	out := make([]api.Content, 0, len(items))
	for i, it := range items {
		typ := api.ContentType(it.Type)
		if !typ.Valid() {
			return nil, fmt.Errorf("sample %d (%q): unknown type %q", i, it.Title, it.Type)
		}
		visible := true
		if it.Visible != nil {
			visible = *it.Visible
		}
		out = append(out, api.Content{
			Title:     it.Title,
			Body:      it.Content,
			Community: it.Community,
			Zone:      it.Zone,
			Category:  it.Category,
			Type:      typ,
			Subtype:   it.Subtype,
			Visible:   visible,
			Sequence:  it.Sequence,
			Media:     it.Media,
		})
	}
	return out, nil
}

type Options struct {
	// Force seeds even when the store already holds content.
	Force bool
	// Records overrides the embedded samples.
	Records []api.Content
	Now     func() time.Time
	Log     *log.Logger
}

// Run writes the sample records in a single batch and returns how many were written.
func Run(ctx context.Context, repo db.ContentRepo, opts Options) (int, error) {
	if !opts.Force {
		n, err := repo.CountContents(ctx)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return 0, ErrNotEmpty
		}
	}
	records := opts.Records
	if records == nil {
		var err error
		if records, err = Load(); err != nil {
			return 0, err
		}
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	ts := now().UTC()
	batch := make([]api.Content, 0, len(records))
	for _, c := range records {
		c.ID = api.NewID()
		c.CreatedAt = ts
		c.UpdatedAt = ts
		batch = append(batch, c)
	}
	n, err := repo.CreateBatch(ctx, batch)
	if err != nil {
		if opts.Log != nil {
			opts.Log.Printf("seed failed: %v", err)
		}
		return 0, fmt.Errorf("seed: %w", err)
	}
	if opts.Log != nil {
		opts.Log.Printf("seeded content count=%d", n)
	}
	return n, nil
}
