package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mithrel/sangama/internal/db"
	"github.com/mithrel/sangama/pkg/api"
)

// Draft is the add-content form before it becomes a stored record.
type Draft struct {
	Title     string          `json:"title"`
	Body      string          `json:"content"`
	Type      api.ContentType `json:"type"`
	Sequence  int             `json:"sequence"`
	Visible   bool            `json:"is_visible"`
	MediaURL  string          `json:"media_url"`
	MediaType api.MediaType   `json:"media_type"`
}

// NewDraft returns a draft with the form defaults.
func NewDraft() Draft {
	return Draft{Type: api.TypeQuote, Sequence: 1, Visible: true}
}

// Defaults carries the record fields the form does not ask for.
type Defaults struct {
	Community string
	Category  string
}

func contentTypeValues() []any {
	out := []any{}
	for _, t := range api.ContentTypes() {
		out = append(out, t)
	}
	return out
}

func mediaTypeValues() []any {
	out := []any{}
	for _, t := range api.MediaTypes() {
		out = append(out, t)
	}
	return out
}

var mediaURLRule = validation.By(func(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return validation.NewError("validation_media_url", "must be a valid http(s) URL")
	}
	return nil
})

// Validate checks the draft. Errors are validation.Errors keyed by form field.
func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required.Error("Title is required")),
		validation.Field(&d.Body, validation.Required.Error("Content is required")),
		validation.Field(&d.Type, validation.Required, validation.In(contentTypeValues()...).Error("must be quote, shloka, song or panchanga")),
		validation.Field(&d.Sequence, validation.Required.Error("Sequence is required"), validation.Min(1).Error("Sequence is required")),
		validation.Field(&d.MediaURL, mediaURLRule),
		validation.Field(&d.MediaType,
			validation.When(strings.TrimSpace(d.MediaURL) != "", validation.Required.Error("Media type is required with a media URL")),
			validation.In(mediaTypeValues()...).Error("must be audio, video or image")),
	)
}

// Build turns a validated draft into a new record.
// Media is attached only when both URL and type are present.
func (d Draft) Build(id string, now time.Time, def Defaults) api.Content {
	now = now.UTC()
	c := api.Content{
		ID:        id,
		Title:     strings.TrimSpace(d.Title),
		Body:      d.Body,
		Community: def.Community,
		Category:  def.Category,
		Type:      d.Type,
		Visible:   d.Visible,
		Sequence:  d.Sequence,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if u := strings.TrimSpace(d.MediaURL); u != "" && d.MediaType != "" {
		c.Media = &api.Media{URL: u, Type: d.MediaType}
	}
	return c
}

// FieldErrors flattens a validation error into field -> message.
// It returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for k, v := range verrs {
		out[k] = v.Error()
	}
	return out
}

// Service validates drafts and writes them to the content store.
type Service struct {
	repo     db.ContentRepo
	defaults Defaults
	log      *log.Logger
	now      func() time.Time
}

func NewService(repo db.ContentRepo, defaults Defaults, logger *log.Logger) *Service {
	return &Service{repo: repo, defaults: defaults, log: logger, now: time.Now}
}

// Add validates d and stores it under a fresh ID.
func (s *Service) Add(ctx context.Context, d Draft) (api.Content, error) {
	if err := d.Validate(); err != nil {
		return api.Content{}, err
	}
	c := d.Build(api.NewID(), s.now(), s.defaults)
	c, err := s.repo.CreateContent(ctx, c)
	if err != nil {
		return api.Content{}, fmt.Errorf("add content: %w", err)
	}
	if s.log != nil {
		s.log.Printf("content added id=%s type=%s title=%q", c.ID, c.Type, c.Title)
	}
	return c, nil
}
