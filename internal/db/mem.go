package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mithrel/sangama/pkg/api"
)

type memStore struct {
	mu   sync.RWMutex
	byID map[string]api.Content
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[string]api.Content)}
}

// clone detaches the media pointer so callers never share state with the store.
func clone(c api.Content) api.Content {
	if c.Media != nil {
		m := *c.Media
		c.Media = &m
	}
	return c
}

func (m *memStore) CreateContent(ctx context.Context, c api.Content) (api.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		return api.Content{}, ErrConflict
	}
	if _, ok := m.byID[c.ID]; ok {
		return api.Content{}, fmt.Errorf("content %s: %w", c.ID, ErrConflict)
	}
	c = stamp(c, time.Now())
	m.byID[c.ID] = clone(c)
	return c, nil
}

func (m *memStore) CreateBatch(ctx context.Context, cs []api.Content) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		if c.ID == "" {
			return 0, ErrConflict
		}
		if _, ok := m.byID[c.ID]; ok {
			return 0, fmt.Errorf("content %s: %w", c.ID, ErrConflict)
		}
		if _, ok := seen[c.ID]; ok {
			return 0, fmt.Errorf("content %s: %w", c.ID, ErrConflict)
		}
		seen[c.ID] = struct{}{}
	}
	now := time.Now()
	for _, c := range cs {
		m.byID[c.ID] = clone(stamp(c, now))
	}
	return len(cs), nil
}

func (m *memStore) GetContent(ctx context.Context, id string) (api.Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byID[id]
	if !ok {
		return api.Content{}, ErrNotFound
	}
	return clone(c), nil
}

func (m *memStore) ListContents(ctx context.Context, q api.ListQuery) ([]api.Content, error) {
	m.mu.RLock()
	out := make([]api.Content, 0, len(m.byID))
	for _, c := range m.byID {
		if q.Type != "" && c.Type != q.Type {
			continue
		}
		if q.Community != "" && c.Community != q.Community {
			continue
		}
		if !q.IncludeHidden && !c.Visible {
			continue
		}
		if !q.Since.IsZero() && c.CreatedAt.Before(q.Since) {
			continue
		}
		if !q.Until.IsZero() && c.CreatedAt.After(q.Until) {
			continue
		}
		out = append(out, clone(c))
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return finishList(out, q), nil
}

func (m *memStore) DeleteContent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memStore) CountContents(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID), nil
}
