package api

import (
	"strings"
	"time"
)

type ContentType string

const (
	TypeQuote     ContentType = "quote"
	TypeShloka    ContentType = "shloka"
	TypeSong      ContentType = "song"
	TypePanchanga ContentType = "panchanga"
)

// ContentTypes lists the known content types in display order.
func ContentTypes() []ContentType {
	return []ContentType{TypeQuote, TypeShloka, TypeSong, TypePanchanga}
}

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	for _, k := range ContentTypes() {
		if t == k {
			return true
		}
	}
	return false
}

// Label is the tab caption: the type with its first letter upper-cased.
func (t ContentType) Label() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type MediaType string

const (
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
	MediaImage MediaType = "image"
)

func MediaTypes() []MediaType {
	return []MediaType{MediaAudio, MediaVideo, MediaImage}
}

func (t MediaType) Valid() bool {
	for _, k := range MediaTypes() {
		if t == k {
			return true
		}
	}
	return false
}

type Media struct {
	URL  string    `json:"url" yaml:"url"`
	Type MediaType `json:"type" yaml:"type"`
}

// Playable reports whether m has a URL and a known media type.
func (m *Media) Playable() bool {
	return m != nil && strings.TrimSpace(m.URL) != "" && m.Type.Valid()
}

// Content is one displayable record: a quote, shloka, song or panchanga entry.
type Content struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Body      string      `json:"content"`
	Community string      `json:"community"`
	Zone      string      `json:"zone,omitempty"`
	Category  string      `json:"category"`
	Type      ContentType `json:"type"`
	Subtype   string      `json:"subtype,omitempty"`
	Visible   bool        `json:"is_visible"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Sequence  int         `json:"sequence"`
	Media     *Media      `json:"media"`
}

// ListQuery filters content listings. Zero values mean "no constraint",
// except that hidden records are skipped unless IncludeHidden is set.
type ListQuery struct {
	Type          ContentType
	Community     string
	IncludeHidden bool
	Since         time.Time
	Until         time.Time
	// Search is a fuzzy title query applied after the store filters.
	Search string
	Limit  int
}

// Tab is one content type together with its records.
type Tab struct {
	Type     ContentType
	Contents []Content
}

// GroupByType builds tabs in the order each type first appears in contents.
func GroupByType(contents []Content) []Tab {
	var tabs []Tab
	idx := make(map[ContentType]int)
	for _, c := range contents {
		i, ok := idx[c.Type]
		if !ok {
			i = len(tabs)
			idx[c.Type] = i
			tabs = append(tabs, Tab{Type: c.Type})
		}
		tabs[i].Contents = append(tabs[i].Contents, c)
	}
	return tabs
}
