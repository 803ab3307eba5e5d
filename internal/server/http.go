package server

import (
	"crypto/subtle"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mithrel/sangama/internal/db"
	"github.com/mithrel/sangama/internal/editor"
	"github.com/mithrel/sangama/internal/keys"
	"github.com/mithrel/sangama/internal/render"
	"github.com/mithrel/sangama/internal/seed"
	"github.com/mithrel/sangama/pkg/api"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"isHeading": func(b render.Block) bool { return b.Kind == render.BlockHeading },
	"isQuote":   func(b render.Block) bool { return b.Kind == render.BlockQuote },
	"isBold":    func(s render.Span) bool { return s.Kind == render.SpanBold },
}).ParseFS(templateFS, "templates/*.html"))

// Server serves the content pages and the JSON API backed by a Store.
type Server struct {
	cfg    *viper.Viper
	store  *db.Store
	editor *editor.Service
	log    *log.Logger
	tokens keys.TokenStore
}

func New(cfg *viper.Viper, store *db.Store, ed *editor.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, store: store, editor: ed, log: logger, tokens: &keys.KeyringStore{}}
}

// WithTokenStore replaces the keyring consulted when auth.keyring is set.
func (s *Server) WithTokenStore(ts keys.TokenStore) *Server {
	s.tokens = ts
	return s
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /content/{id}", s.handleDetail)
	mux.HandleFunc("POST /content", s.editing(s.handleCreate))
	mux.HandleFunc("POST /seed", s.editing(s.handleSeed))

	mux.HandleFunc("GET /api/content", s.handleAPIList)
	mux.HandleFunc("GET /api/content/{id}", s.handleAPIGet)
	mux.HandleFunc("POST /api/content", s.auth(s.handleAPICreate))
	mux.HandleFunc("DELETE /api/content/{id}", s.auth(s.handleAPIDelete))
	return s.logRequests(mux)
}

// auth enforces the bearer token when one is configured or kept in the keyring.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, err := keys.ResolveAPIToken(s.cfg, s.tokens)
		if err != nil {
			s.fail(w, "resolve api token", err)
			return
		}
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !bearerMatches(r.Header.Get("Authorization"), tok) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func bearerMatches(header, tok string) bool {
	got, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(tok)) == 1
}

// editingAllowed reports whether the form and seed routes are open. The forms
// carry no credentials, so a configured API token closes them unless
// web.forms_with_token is set.
func (s *Server) editingAllowed() (bool, error) {
	if !s.cfg.GetBool("web.editing") {
		return false, nil
	}
	if s.cfg.GetBool("web.forms_with_token") {
		return true, nil
	}
	tok, err := keys.ResolveAPIToken(s.cfg, s.tokens)
	if err != nil {
		return false, err
	}
	return tok == "", nil
}

func (s *Server) editing(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := s.editingAllowed()
		if err != nil {
			s.fail(w, "resolve api token", err)
			return
		}
		if !ok {
			http.Error(w, "editing is disabled", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Printf("http method=%s path=%s status=%d dur=%s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

type tabView struct {
	Type   api.ContentType
	Label  string
	Href   string
	Active bool
}

type cardView struct {
	ID       string
	Type     api.ContentType
	Title    string
	Date     string
	Datetime string
	Sections []render.Section
	Media    *api.Media
}

type pageView struct {
	Title      string
	Query      string
	Empty      bool
	Editing    bool
	Tabs       []tabView
	Cards      []cardView
	Draft      editor.Draft
	Errors     map[string]string
	Types      []api.ContentType
	MediaTypes []api.MediaType
}

type detailView struct {
	Title string
	Card  cardView
}

func newCard(c api.Content) cardView {
	cv := cardView{
		ID:       c.ID,
		Type:     c.Type,
		Title:    c.Title,
		Date:     c.CreatedAt.Local().Format("2 Jan 2006"),
		Datetime: c.CreatedAt.UTC().Format(time.RFC3339),
		Sections: render.Render(c.Body),
	}
	if c.Media.Playable() {
		cv.Media = c.Media
	}
	return cv
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, editor.NewDraft(), nil, http.StatusOK)
}

// renderPage builds the tabbed listing; draft and errs refill the add form.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, draft editor.Draft, errs map[string]string, status int) {
	ctx := r.Context()
	total, err := s.store.Contents.CountContents(ctx)
	if err != nil {
		s.fail(w, "count contents", err)
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	contents, err := s.store.Contents.ListContents(ctx, api.ListQuery{Search: q})
	if err != nil {
		s.fail(w, "list contents", err)
		return
	}

	editing, err := s.editingAllowed()
	if err != nil {
		s.log.Printf("resolve api token failed: %v", err)
	}
	view := pageView{
		Title:      s.cfg.GetString("web.title"),
		Query:      q,
		Empty:      total == 0,
		Editing:    editing,
		Draft:      draft,
		Errors:     errs,
		Types:      api.ContentTypes(),
		MediaTypes: api.MediaTypes(),
	}
	tabs := api.GroupByType(contents)
	active := api.ContentType(r.URL.Query().Get("tab"))
	found := false
	for _, t := range tabs {
		if t.Type == active {
			found = true
		}
	}
	if !found && len(tabs) > 0 {
		active = tabs[0].Type
	}
	for _, t := range tabs {
		v := url.Values{"tab": {string(t.Type)}}
		if q != "" {
			v.Set("q", q)
		}
		view.Tabs = append(view.Tabs, tabView{Type: t.Type, Label: t.Type.Label(), Href: "/?" + v.Encode(), Active: t.Type == active})
		if t.Type != active {
			continue
		}
		for _, c := range t.Contents {
			view.Cards = append(view.Cards, newCard(c))
		}
	}
	s.execute(w, "page", view, status)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Contents.GetContent(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) || (err == nil && !c.Visible) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, "get content", err)
		return
	}
	s.execute(w, "detail", detailView{Title: s.cfg.GetString("web.title"), Card: newCard(c)}, http.StatusOK)
}

// draftFromForm reads the add form; an unparsable sequence becomes 0 and fails validation.
func draftFromForm(r *http.Request) editor.Draft {
	seq, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("sequence")))
	return editor.Draft{
		Title:     strings.TrimSpace(r.PostFormValue("title")),
		Body:      r.PostFormValue("content"),
		Type:      api.ContentType(r.PostFormValue("type")),
		Sequence:  seq,
		Visible:   r.PostFormValue("is_visible") != "",
		MediaURL:  strings.TrimSpace(r.PostFormValue("media_url")),
		MediaType: api.MediaType(r.PostFormValue("media_type")),
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	d := draftFromForm(r)
	c, err := s.editor.Add(r.Context(), d)
	if fe := editor.FieldErrors(err); fe != nil {
		s.renderPage(w, r, d, fe, http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		s.fail(w, "add content", err)
		return
	}
	http.Redirect(w, r, "/?tab="+url.QueryEscape(string(c.Type)), http.StatusSeeOther)
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	_, err := seed.Run(r.Context(), s.store.Contents, seed.Options{Log: s.log})
	if errors.Is(err, seed.ErrNotEmpty) {
		http.Error(w, "database is not empty", http.StatusConflict)
		return
	}
	if err != nil {
		s.fail(w, "seed", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) execute(w http.ResponseWriter, name string, data any, status int) {
	var buf strings.Builder
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		s.fail(w, "render "+name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.log.Printf("%s failed: %v", op, err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
