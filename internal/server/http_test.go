package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/sangama/internal/db"
	"github.com/mithrel/sangama/internal/editor"
	"github.com/mithrel/sangama/internal/render"
	"github.com/mithrel/sangama/pkg/api"
)

type fixture struct {
	cfg   *viper.Viper
	store *db.Store
	h     http.Handler
	logs  *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, _, err := db.Open(context.Background(), "mem://")
	require.NoError(t, err)
	cfg := viper.New()
	cfg.Set("web.title", "Daily Sangama")
	cfg.Set("web.editing", true)
	logs := &bytes.Buffer{}
	logger := log.New(logs, "", 0)
	ed := editor.NewService(store.Contents, editor.Defaults{Community: "c", Category: "routine"}, logger)
	srv := New(cfg, store, ed, logger)
	return &fixture{cfg: cfg, store: store, h: srv.Router(), logs: logs}
}

func (f *fixture) do(method, target string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, target, strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
}

func (f *fixture) add(t *testing.T, c api.Content) api.Content {
	t.Helper()
	if c.ID == "" {
		c.ID = api.NewID()
	}
	out, err := f.store.Contents.CreateContent(context.Background(), c)
	require.NoError(t, err)
	return out
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Contains(t, f.logs.String(), "http method=GET path=/healthz status=200")
}

func TestEmptyPageAndSeed(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Daily Sangama</title>")
	assert.Contains(t, rec.Body.String(), "The database is empty.")
	assert.Contains(t, rec.Body.String(), `action="/seed"`)

	rec = f.do(http.MethodPost, "/seed", nil, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = f.do(http.MethodPost, "/seed", nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodGet, "/", nil, nil)
	body := rec.Body.String()
	assert.NotContains(t, body, "The database is empty.")
	assert.Contains(t, body, `<a href="/?tab=quote" class="active">Quote</a>`)
	assert.Contains(t, body, `<a href="/?tab=song">Song</a>`)
	assert.Contains(t, body, "<blockquote>Arise, awake, and <strong>stop not</strong> till the goal is reached.</blockquote>")

	rec = f.do(http.MethodGet, "/?tab=song", nil, nil)
	assert.Contains(t, rec.Body.String(), `<audio controls preload="metadata" src="https://example.com/audio/raghupati-raghava.mp3">`)
	assert.Contains(t, rec.Body.String(), "<h3>Refrain</h3>")
}

func TestPageRendering(t *testing.T) {
	f := newFixture(t)
	f.add(t, api.Content{Title: "Hidden", Body: "secret", Type: api.TypeQuote, Sequence: 1})
	f.add(t, api.Content{
		Title: "Clip", Type: api.TypeSong, Sequence: 1, Visible: true,
		Body:  "### <Title>\n  indented **bold**\n---\n> plain <b>",
		Media: &api.Media{URL: "https://example.com/v.mp4", Type: api.MediaVideo},
	})
	f.add(t, api.Content{Title: "Shot", Type: api.TypeShloka, Sequence: 1, Visible: true, Body: "x",
		Media: &api.Media{URL: "https://example.com/i.png", Type: api.MediaImage}})

	body := f.do(http.MethodGet, "/", nil, nil).Body.String()
	assert.NotContains(t, body, "Hidden")
	assert.Contains(t, body, "<h3>&lt;Title&gt;</h3>")
	assert.Contains(t, body, `<p class="pre">  indented <strong>bold</strong></p>`)
	assert.Contains(t, body, "<blockquote>plain &lt;b&gt;</blockquote>")
	assert.Equal(t, 2, strings.Count(body, `<section class="markup">`))
	assert.Contains(t, body, `<video controls preload="metadata" src="https://example.com/v.mp4">`)

	body = f.do(http.MethodGet, "/?tab=shloka", nil, nil).Body.String()
	assert.Contains(t, body, `<img src="https://example.com/i.png" alt="">`)

	body = f.do(http.MethodGet, "/?tab=nope", nil, nil).Body.String()
	assert.Contains(t, body, `<a href="/?tab=song" class="active">Song</a>`)

	body = f.do(http.MethodGet, "/?q=shot", nil, nil).Body.String()
	assert.Contains(t, body, "Shot")
	assert.NotContains(t, body, "Clip")
	assert.Contains(t, body, `href="/?q=shot&amp;tab=shloka"`)
}

func TestDetail(t *testing.T) {
	f := newFixture(t)
	c := f.add(t, api.Content{Title: "One", Type: api.TypeQuote, Sequence: 1, Visible: true, Body: "hi"})
	hidden := f.add(t, api.Content{Title: "Two", Type: api.TypeQuote, Sequence: 1, Body: "hi"})

	rec := f.do(http.MethodGet, "/content/"+c.ID, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="c-`+c.ID+`"`)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/content/"+hidden.ID, nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/content/missing", nil, nil).Code)
}

func TestCreateForm(t *testing.T) {
	f := newFixture(t)
	rec := f.postForm("/content", url.Values{"title": {""}, "type": {"shloka"}, "sequence": {"x"}, "content": {"body"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `<div class="error">Title is required</div>`)
	assert.Contains(t, rec.Body.String(), `<option value="shloka" selected>Shloka</option>`)

	rec = f.postForm("/content", url.Values{
		"title": {"Gita 2.47"}, "type": {"shloka"}, "sequence": {"3"}, "content": {"> **karma**"},
		"is_visible": {"on"}, "media_url": {"https://example.com/a.mp3"}, "media_type": {"audio"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?tab=shloka", rec.Header().Get("Location"))

	all, err := f.store.Contents.ListContents(context.Background(), api.ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c", all[0].Community)
	assert.Equal(t, 3, all[0].Sequence)
	require.NotNil(t, all[0].Media)
	assert.Equal(t, api.MediaAudio, all[0].Media.Type)

	f.cfg.Set("web.editing", false)
	assert.Equal(t, http.StatusForbidden, f.postForm("/content", url.Values{"title": {"x"}}).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/seed", nil, nil).Code)
	assert.NotContains(t, f.do(http.MethodGet, "/", nil, nil).Body.String(), `action="/content"`)
}

func TestFormsClosedByAPIToken(t *testing.T) {
	f := newFixture(t)
	f.cfg.Set("auth.token", "s3cret")
	form := url.Values{"title": {"Arati"}, "content": {"text"}, "type": {"song"}, "sequence": {"1"}}

	assert.Equal(t, http.StatusForbidden, f.postForm("/content", form).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/seed", nil, nil).Code)
	n, err := f.store.Contents.CountContents(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	page := f.do(http.MethodGet, "/", nil, nil).Body.String()
	assert.NotContains(t, page, `action="/content"`)
	assert.NotContains(t, page, `action="/seed"`)

	f.cfg.Set("web.forms_with_token", true)
	assert.Equal(t, http.StatusSeeOther, f.postForm("/content", form).Code)
}

func TestBearerMatches(t *testing.T) {
	assert.True(t, bearerMatches("Bearer s3cret", "s3cret"))
	assert.True(t, bearerMatches("Bearer  s3cret ", "s3cret"))
	assert.False(t, bearerMatches("Bearer s3cre", "s3cret"))
	assert.False(t, bearerMatches("Basic s3cret", "s3cret"))
	assert.False(t, bearerMatches("", "s3cret"))
}

func TestAPIList(t *testing.T) {
	f := newFixture(t)
	f.add(t, api.Content{Title: "Q", Type: api.TypeQuote, Sequence: 1, Visible: true, Body: "> **a** b"})
	f.add(t, api.Content{Title: "H", Type: api.TypeSong, Sequence: 1, Body: "x"})

	rec := f.do(http.MethodGet, "/api/content", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Q", items[0].Content.Title)
	require.Len(t, items[0].Sections, 1)
	assert.Equal(t, render.BlockQuote, items[0].Sections[0].Blocks[0].Kind)
	assert.Contains(t, rec.Body.String(), `"kind":"quote"`)

	rec = f.do(http.MethodGet, "/api/content?all=true&type=song", nil, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "H", items[0].Content.Title)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/content?type=sermon", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/content?all=maybe", nil, nil).Code)
}

func TestAPIGetETag(t *testing.T) {
	f := newFixture(t)
	c := f.add(t, api.Content{Title: "Q", Type: api.TypeQuote, Sequence: 1, Visible: true, Body: "b",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})

	rec := f.do(http.MethodGet, "/api/content/"+c.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	assert.Equal(t, `"`+c.Hash()+`"`, etag)

	rec = f.do(http.MethodGet, "/api/content/"+c.ID, nil, map[string]string{"If-None-Match": `"other", ` + etag})
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/content/"+c.ID, nil, map[string]string{"If-None-Match": `"other"`})
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/content/missing", nil, nil).Code)
}

func TestAPIWrites(t *testing.T) {
	f := newFixture(t)
	f.cfg.Set("auth.token", "s3cret")
	auth := map[string]string{"Authorization": "Bearer s3cret", "Content-Type": "application/json"}
	draft := `{"title":"New","content":"text","type":"song","sequence":2}`

	rec := f.do(http.MethodPost, "/api/content", strings.NewReader(draft), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/content", strings.NewReader(draft), auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	var item Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, api.TypeSong, item.Content.Type)
	assert.True(t, item.Content.Visible)
	assert.Equal(t, "/api/content/"+item.Content.ID, rec.Header().Get("Location"))

	rec = f.do(http.MethodPost, "/api/content", strings.NewReader(`{"title":"","content":"x"}`), auth)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Title is required"`)

	rec = f.do(http.MethodPost, "/api/content", strings.NewReader(`{"bogus":1}`), auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodDelete, "/api/content/"+item.Content.ID, nil, nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/content/"+item.Content.ID, nil, auth).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/api/content/"+item.Content.ID, nil, auth).Code)
	assert.Contains(t, f.logs.String(), "content deleted id="+item.Content.ID)
}

type stubTokens struct {
	tok string
	err error
}

func (s stubTokens) Get(string) (string, error) { return s.tok, s.err }
func (s stubTokens) Put(string, string) error   { return nil }
func (s stubTokens) Delete(string) error        { return nil }

func TestAPIWritesKeyringToken(t *testing.T) {
	f := newFixture(t)
	f.cfg.Set("auth.keyring", true)
	logger := log.New(f.logs, "", 0)
	h := New(f.cfg, f.store, nil, logger).WithTokenStore(stubTokens{tok: "kr"}).Router()
	del := func(hdr map[string]string) int {
		req := httptest.NewRequest(http.MethodDelete, "/api/content/missing", nil)
		for k, v := range hdr {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusUnauthorized, del(nil))
	assert.Equal(t, http.StatusNotFound, del(map[string]string{"Authorization": "Bearer kr"}))

	h = New(f.cfg, f.store, nil, logger).WithTokenStore(stubTokens{err: errors.New("locked")}).Router()
	assert.Equal(t, http.StatusInternalServerError, del(map[string]string{"Authorization": "Bearer kr"}))
	assert.Contains(t, f.logs.String(), "resolve api token failed: locked")
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	srv := New(f.cfg, f.store, nil, log.New(io.Discard, "", 0))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestBuildCertMagicTLSRequiresDomain(t *testing.T) {
	_, _, err := BuildCertMagicTLS(context.Background(), CertMagicConfig{})
	assert.ErrorContains(t, err, "domain")
}
