package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/huadle/internal/game"
	"github.com/robalobadob/huadle/internal/metrics"
	"github.com/robalobadob/huadle/internal/store"
	"github.com/robalobadob/huadle/internal/suggest"
)

const modeClassic = "classic"

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	AnswerID int `json:"answerId"` // optional fixed target, honoured only when cfg.FixedAnswers
}
type newGameRes struct {
	GameID     string `json:"gameId"`
	Characters int    `json:"characters"`
}

// handleNewGame starts a session against a random (or requested) target and
// persists a DB "owner" row (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	pool := s.Pool()
	target := pool.RandomTarget()
	if req.AnswerID != 0 && s.cfg.FixedAnswers {
		c, ok := pool.ByID(req.AnswerID)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown_answer")
			return
		}
		target = c
	}

	sess := game.NewSession(uuid.NewString(), pool.All(), target)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	// The answer itself stays in memory; the row only records the target ID.
	now := time.Now().UTC().Format(time.RFC3339)
	owner, registered := s.playerID(w, r)
	if registered {
		if err := s.users.RecordGameStarted(r.Context(), owner); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("user", owner).Msg("record game started")
		}
		_, err := s.db.ExecContext(r.Context(), `INSERT INTO games (id, user_id, target_id, started_at) VALUES (?,?,?,?)`,
			sess.ID(), owner, target.ID, now)
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", sess.ID()).Msg("insert user game row")
		}
	} else {
		_, err := s.db.ExecContext(r.Context(), `INSERT INTO games (id, anonymous_id, target_id, started_at) VALUES (?,?,?,?)`,
			sess.ID(), owner, target.ID, now)
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", sess.ID()).Msg("insert anon game row")
		}
	}
	s.metrics.GamesStarted.WithLabelValues(modeClassic).Inc()

	writeJSON(w, http.StatusOK, newGameRes{GameID: sess.ID(), Characters: pool.Len()})
}

// guessReq/Res payloads for POST /game/guess and POST /daily/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Result     *game.GuessResult `json:"result,omitempty"`
	State      game.State        `json:"state"`
	Guesses    int               `json:"guesses"`
	Message    string            `json:"message,omitempty"`
	Error      string            `json:"error,omitempty"`      // not_found | duplicate
	DidYouMean string            `json:"didYouMean,omitempty"` // closest name for not_found
	Answer     *game.Character   `json:"answer,omitempty"`     // only once won
}

// submitGuess runs one guess through sess and shapes the response.
// Unknown and repeated names are answered with 200 and an error code so the
// client can show the message without treating it as a failure.
func (s *Server) submitGuess(sess *game.Session, text string) guessRes {
	out, err := sess.Submit(text)
	res := guessRes{Result: out.Result, State: out.State, Guesses: out.Guesses, Message: out.Message}
	switch {
	case errors.Is(err, game.ErrCharacterNotFound):
		res.Error = "not_found"
		if name, ok := suggest.DidYouMean(text, sess.Pool()); ok {
			res.DidYouMean = name
		}
		s.metrics.Guesses.WithLabelValues(metrics.OutcomeNotFound).Inc()
	case errors.Is(err, game.ErrDuplicateGuess):
		res.Error = "duplicate"
		s.metrics.Guesses.WithLabelValues(metrics.OutcomeDuplicate).Inc()
	case out.Ignored:
		s.metrics.Guesses.WithLabelValues(metrics.OutcomeIgnored).Inc()
	default:
		s.metrics.Guesses.WithLabelValues(metrics.OutcomeAccepted).Inc()
	}
	if out.State == game.StateWon {
		t := sess.Target()
		res.Answer = &t
	}
	return res
}

// handleGuess applies a guess to a live session, persists progress,
// and (if the guess won) credits the owner's stats.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.sessions.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	res := s.submitGuess(sess, req.Guess)

	// Only accepted guesses carry a result; a won session accepts no more.
	if res.Result != nil {
		won := res.State == game.StateWon
		if won {
			s.metrics.ObserveWin(modeClassic, res.Guesses)
		}
		s.recordGuess(r, sess.ID(), won)
	}
	writeJSON(w, http.StatusOK, res)
}

// recordGuess bumps the games row and, on a win, finishes it and credits the
// owner. Failures are logged; the in-memory session stays authoritative.
func (s *Server) recordGuess(r *http.Request, gameID string, won bool) {
	logger := hlog.FromRequest(r)
	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		logger.Warn().Err(err).Msg("begin guess tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(r.Context(), `UPDATE games SET guesses = guesses + 1 WHERE id=?`, gameID); err != nil {
		logger.Warn().Err(err).Msg("update guesses")
	}
	if won {
		if _, err := tx.ExecContext(r.Context(), `UPDATE games SET status='won', finished_at=? WHERE id=?`,
			time.Now().UTC().Format(time.RFC3339), gameID); err != nil {
			logger.Warn().Err(err).Msg("finish game")
		}
	}
	if err := tx.Commit(); err != nil {
		logger.Warn().Err(err).Msg("commit guess")
		return
	}
	if me := currentUser(r); me != nil && won {
		if err := s.users.RecordWin(r.Context(), me.ID); err != nil {
			logger.Warn().Err(err).Str("user", me.ID).Msg("record win")
		}
	}
}

// gameRes is returned by GET /game/{id}.
type gameRes struct {
	GameID  string             `json:"gameId"`
	State   game.State         `json:"state"`
	Guesses int                `json:"guesses"`
	History []game.GuessResult `json:"history"`
	Message string             `json:"message,omitempty"`
	Answer  *game.Character    `json:"answer,omitempty"`
}

// handleGetGame returns the board of a live session. The target is revealed
// only once the session is won.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	res := gameRes{
		GameID:  sess.ID(),
		State:   sess.State(),
		Guesses: sess.Guesses(),
		History: sess.History(),
		Message: sess.Message(),
	}
	if res.State == game.StateWon {
		t := sess.Target()
		res.Answer = &t
	}
	writeJSON(w, http.StatusOK, res)
}

// scanGameRows reads the (id, status, guesses, started_at, finished_at) projection.
func scanGameRows(rows *sql.Rows) ([]gameRow, error) {
	defer rows.Close()
	out := []gameRow{}
	for rows.Next() {
		var gr gameRow
		var finished sql.NullString
		if err := rows.Scan(&gr.ID, &gr.Status, &gr.Guesses, &gr.StartedAt, &finished); err != nil {
			return nil, err
		}
		gr.FinishedAt = finished.String
		out = append(out, gr)
	}
	return out, rows.Err()
}

// gameRow is one entry of GET /games/mine.
type gameRow struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Guesses    int    `json:"guesses"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}
