// internal/httpserver/server.go
//
// HTTP server wiring for the character-guessing backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Game endpoints (optional auth): /game/new, /game/guess, /game/{id}.
//   - Daily challenge (optional auth): mounted under /daily.
//   - Characters: public list + autocomplete, admin CRUD (require auth).
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Sessions live in the in-memory store; the games table only records
//     ownership, counters and status.
//   - The character pool is swapped atomically after admin edits. Running
//     sessions keep the snapshot they started with.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/huadle/internal/auth"
	"github.com/robalobadob/huadle/internal/characters"
	"github.com/robalobadob/huadle/internal/charstore"
	"github.com/robalobadob/huadle/internal/config"
	"github.com/robalobadob/huadle/internal/metrics"
	"github.com/robalobadob/huadle/internal/store"
	"github.com/robalobadob/huadle/internal/suggest"
)

// Deps are the collaborators a Server needs. Chars may be nil, in which case
// the admin endpoints answer 503.
type Deps struct {
	Config   *config.Config
	Pool     *characters.Pool
	Sessions store.Store
	DB       *sql.DB
	Chars    *charstore.Store
	Metrics  *metrics.Metrics
}

// Server bundles router, session store, DB handle and the current pool.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	pool     atomic.Pointer[characters.Pool]
	sessions store.Store
	db       *sql.DB
	users    *auth.Users
	tokens   *auth.Tokens
	chars    *charstore.Store
	metrics  *metrics.Metrics
	mode     suggest.Mode
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		sessions: d.Sessions,
		db:       d.DB,
		users:    auth.NewUsers(d.DB),
		chars:    d.Chars,
		metrics:  d.Metrics,
		mode:     suggest.ParseMode(d.Config.SuggestMode),
		tokens: &auth.Tokens{
			Secret:     []byte(d.Config.JWTSecret),
			TTL:        time.Duration(d.Config.JWTExpiresDays) * 24 * time.Hour,
			CookieName: d.Config.CookieName,
			Secure:     d.Config.Production,
		},
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	s.pool.Store(d.Pool)

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(requestIDLogField)
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFor(d.Config.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "huadle",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/guess", "/characters/suggest", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "characters": s.Pool().Len()})
	})
	s.r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// Game endpoints (optional auth: guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{id}", s.handleGetGame)
		s.mountDaily(r)
	})

	s.mountCharacters()
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Pool returns the current character snapshot.
func (s *Server) Pool() *characters.Pool { return s.pool.Load() }

// reloadPool rebuilds the pool from the SQLite catalogue after an admin edit.
// It does nothing when the pool comes from a file or the embedded default.
// A failed reload, including one that finds the catalogue empty, keeps the
// previous pool.
func (s *Server) reloadPool(ctx context.Context) {
	if s.chars == nil || s.cfg.PoolSource != "sqlite" || s.cfg.CharactersFile != "" {
		return
	}
	p, err := characters.Load(ctx, characters.Options{Store: s.chars})
	if errors.Is(err, characters.ErrEmptyPool) {
		log.Warn().Msg("character catalogue is empty; keeping the previous pool")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("reload character pool")
		return
	}
	s.pool.Store(p)
}

// requestIDLogField copies chi's request ID into the request logger.
func requestIDLogField(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			l := zerolog.Ctx(r.Context())
			l.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
