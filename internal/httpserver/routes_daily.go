// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's game
//   - GET  /daily/leaderboard → fetch top results for today (or a given date)
//
// Each player can finish once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB on win.
// The target is picked deterministically from date + salt.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/huadle/internal/daily"
	"github.com/robalobadob/huadle/internal/game"
)

const modeDaily = "daily"

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]*dailySession // keyed by playerID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession pairs a game session with what the leaderboard needs.
type dailySession struct {
	sess        *game.Session
	date        string
	targetIndex int
	start       time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		now:      func() time.Time { return time.Now().UTC() },
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns today's date key, the target index and the target itself.
func (d *dailyServer) today() (date string, idx int, target game.Character) {
	now := d.now()
	pool := d.srv.Pool()
	idx = daily.TargetIndex(now, d.salt, pool.Len())
	return daily.DateKey(now), idx, pool.At(idx)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the player already has a DB row for today → Played=true.
// - Otherwise create/reuse an in-memory session and return its GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid, _ := d.srv.playerID(w, r)
	date, idx, target := d.today()

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if ds, ok := d.sessions[key]; ok {
		writeJSON(w, http.StatusOK, dailyNewRes{GameID: ds.sess.ID(), Date: date})
		return
	}
	d.pruneLocked(r.Context(), date)

	ds := &dailySession{
		sess:        game.NewSession(uuid.NewString(), d.srv.Pool().All(), target),
		date:        date,
		targetIndex: idx,
		start:       d.now(),
	}
	d.sessions[key] = ds
	if err := d.srv.sessions.Save(r.Context(), ds.sess); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("save daily session")
	}
	d.srv.metrics.GamesStarted.WithLabelValues(modeDaily).Inc()

	writeJSON(w, http.StatusOK, dailyNewRes{GameID: ds.sess.ID(), Date: date})
}

// pruneLocked forgets sessions from earlier days. d.mu must be held.
func (d *dailyServer) pruneLocked(ctx context.Context, today string) {
	for k, ds := range d.sessions {
		if ds.date != today {
			delete(d.sessions, k)
			_ = d.srv.sessions.Delete(ctx, ds.sess.ID())
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/guess

// handleGuess applies a guess to today's session; a win is stored once in
// daily_results.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid, _ := d.srv.playerID(w, r)

	var p guessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if p.GameID == "" {
		writeError(w, http.StatusBadRequest, "invalid")
		return
	}

	date, _, _ := d.today()
	d.mu.Lock()
	ds, ok := d.sessions[uid+"|"+date]
	d.mu.Unlock()
	if !ok || ds.sess.ID() != p.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	res := d.srv.submitGuess(ds.sess, p.Guess)
	if res.Result != nil && res.State == game.StateWon {
		d.srv.metrics.ObserveWin(modeDaily, res.Guesses)
		err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:      uid,
			Date:        ds.date,
			TargetIndex: ds.targetIndex,
			Guesses:     res.Guesses,
			ElapsedMs:   int(d.now().Sub(ds.start).Milliseconds()),
		})
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for ?date= (default today).
// ?limit= caps the rows (default 20).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date, _, _ = d.today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := d.store.Leaderboard(r.Context(), date, limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
