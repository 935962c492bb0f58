// internal/httpserver/routes_characters.go
//
// Character endpoints.
//   - GET /characters          → ids and names of the current pool
//   - GET /characters/suggest  → autocomplete matches + dropdown visibility
//   - /admin/characters/*      → catalogue CRUD (ADMIN_USERS only, SQLite only)
//
// Admin edits rebuild the pool when it is backed by SQLite; games already
// running keep the snapshot they started with.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/huadle/internal/charstore"
	"github.com/robalobadob/huadle/internal/game"
	"github.com/robalobadob/huadle/internal/suggest"
)

// mountCharacters registers the public and admin character routes.
func (s *Server) mountCharacters() {
	s.r.Get("/characters", s.handleListNames)
	s.r.Get("/characters/suggest", s.handleSuggest)

	s.r.Route("/admin/characters", func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Use(s.requireAdmin)
		r.Use(s.requireCatalogue)
		r.Get("/", s.handleAdminList)
		r.Post("/", s.handleAdminCreate)
		r.Get("/{id}", s.handleAdminGet)
		r.Put("/{id}", s.handleAdminUpdate)
		r.Delete("/{id}", s.handleAdminDelete)
		r.Post("/{id}/aliases", s.handleAdminAddAliases)
		r.Put("/{id}/aliases", s.handleAdminReplaceAliases)
	})
}

type nameRow struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleListNames(w http.ResponseWriter, r *http.Request) {
	all := s.Pool().All()
	out := make([]nameRow, 0, len(all))
	for _, c := range all {
		out = append(out, nameRow{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// suggestRes is returned by /characters/suggest.
type suggestRes struct {
	Matches []nameRow `json:"matches"`
	Visible bool      `json:"visible"`
	Mode    string    `json:"mode"`
}

// handleSuggest filters the pool by ?q=. ?mode= overrides the configured
// match mode, ?focused=false reports the dropdown as hidden, ?limit= caps
// the returned rows (visibility is decided before the cap).
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("q")
	mode := s.mode
	if m := q.Get("mode"); m != "" {
		mode = suggest.ParseMode(m)
	}
	focused := true
	if f := q.Get("focused"); f != "" {
		if b, err := strconv.ParseBool(f); err == nil {
			focused = b
		}
	}
	limit := s.cfg.SuggestLimit
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		limit = l
	}

	matches := suggest.Filter(text, s.Pool().All(), mode)
	s.metrics.SuggestCalls.Inc()

	res := suggestRes{
		Matches: []nameRow{},
		Visible: suggest.Visible(focused, text, len(matches)),
		Mode:    mode.String(),
	}
	for i, c := range matches {
		if limit > 0 && i >= limit {
			break
		}
		res.Matches = append(res.Matches, nameRow{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, res)
}

// ------------------------------ ADMIN --------------------------------------

// requireAdmin answers 403 unless the signed-in user is on the admin allow-list.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		me := currentUser(r)
		if me == nil || !s.cfg.IsAdmin(me.Username) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireCatalogue answers 503 when the server runs without a SQLite catalogue.
func (s *Server) requireCatalogue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.chars == nil {
			writeError(w, http.StatusServiceUnavailable, "catalogue_unavailable")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAdminList(w http.ResponseWriter, r *http.Request) {
	list, err := s.chars.List(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	var c game.Character
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if msg := validateCharacter(c); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	c.Height = game.ParseHeight(string(c.Height))
	id, err := s.chars.Create(r.Context(), c)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("name", c.Name).Msg("create character")
		writeError(w, http.StatusConflict, "create_failed")
		return
	}
	s.reloadPool(r.Context())
	writeJSON(w, http.StatusCreated, map[string]int{"id": id})
}

func (s *Server) handleAdminGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	c, err := s.chars.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p charstore.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if p.FirstSeenChapter != nil && *p.FirstSeenChapter <= 0 {
		writeError(w, http.StatusBadRequest, "firstSeenChapter must be positive")
		return
	}
	if p.Height != nil {
		h := game.ParseHeight(string(*p.Height))
		p.Height = &h
	}
	if err := s.chars.Update(r.Context(), id, p); err != nil {
		s.storeError(w, r, err)
		return
	}
	s.reloadPool(r.Context())
	s.respondCharacter(w, r, id)
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.chars.Delete(r.Context(), id); err != nil {
		s.storeError(w, r, err)
		return
	}
	s.reloadPool(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type aliasesReq struct {
	Aliases []string `json:"aliases"`
}

func (s *Server) handleAdminAddAliases(w http.ResponseWriter, r *http.Request) {
	s.editAliases(w, r, s.chars.AddAliases)
}

func (s *Server) handleAdminReplaceAliases(w http.ResponseWriter, r *http.Request) {
	s.editAliases(w, r, s.chars.ReplaceAliases)
}

func (s *Server) editAliases(w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, id int, aliases []string) error) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body aliasesReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if err := apply(r.Context(), id, body.Aliases); err != nil {
		s.storeError(w, r, err)
		return
	}
	s.reloadPool(r.Context())
	s.respondCharacter(w, r, id)
}

func (s *Server) respondCharacter(w http.ResponseWriter, r *http.Request, id int) {
	c, err := s.chars.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// storeError maps catalogue errors onto HTTP statuses.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, charstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("character store")
	writeError(w, http.StatusInternalServerError, "db_error")
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "bad_id")
		return 0, false
	}
	return id, true
}

// validateCharacter returns a client-facing message, or "" when c is usable.
func validateCharacter(c game.Character) string {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return "name is required"
	case c.FirstSeenChapter <= 0:
		return "firstSeenChapter must be positive"
	case c.ID < 0:
		return "id must be positive"
	}
	return ""
}
