package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mithrel/sangama/internal/db"
	"github.com/mithrel/sangama/internal/editor"
	"github.com/mithrel/sangama/internal/render"
	"github.com/mithrel/sangama/pkg/api"
)

// Item is the JSON shape of one record with its rendered body.
type Item struct {
	Content  api.Content      `json:"content"`
	Sections []render.Section `json:"sections"`
}

func newItem(c api.Content) Item {
	return Item{Content: c, Sections: render.Render(c.Body)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := api.ListQuery{
		Type:   api.ContentType(strings.TrimSpace(qs.Get("type"))),
		Search: strings.TrimSpace(qs.Get("q")),
	}
	if q.Type != "" && !q.Type.Valid() {
		http.Error(w, "unknown type", http.StatusBadRequest)
		return
	}
	if all := qs.Get("all"); all != "" {
		b, err := strconv.ParseBool(all)
		if err != nil {
			http.Error(w, "bad all", http.StatusBadRequest)
			return
		}
		q.IncludeHidden = b
	}
	if ls := strings.TrimSpace(qs.Get("limit")); ls != "" {
		if n, err := strconv.Atoi(ls); err == nil && n > 0 {
			q.Limit = n
		}
	}
	contents, err := s.store.Contents.ListContents(r.Context(), q)
	if err != nil {
		s.fail(w, "list contents", err)
		return
	}
	out := make([]Item, 0, len(contents))
	for _, c := range contents {
		out = append(out, newItem(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIGet(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Contents.GetContent(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, "get content", err)
		return
	}
	etag := `"` + c.Hash() + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, newItem(c))
}

// etagMatches handles "*" and comma-separated lists, ignoring weak prefixes.
func etagMatches(header, etag string) bool {
	for _, part := range strings.Split(header, ",") {
		p := strings.TrimPrefix(strings.TrimSpace(part), "W/")
		if p == "*" || p == etag {
			return true
		}
	}
	return false
}

func (s *Server) handleAPICreate(w http.ResponseWriter, r *http.Request) {
	d := editor.NewDraft()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	c, err := s.editor.Add(r.Context(), d)
	if fe := editor.FieldErrors(err); fe != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fe})
		return
	}
	if err != nil {
		s.fail(w, "add content", err)
		return
	}
	w.Header().Set("Location", "/api/content/"+c.ID)
	writeJSON(w, http.StatusCreated, newItem(c))
}

func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.store.Contents.DeleteContent(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, "delete content", err)
		return
	}
	s.log.Printf("content deleted id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
