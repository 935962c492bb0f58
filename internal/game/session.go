// internal/game/session.go
//
// Session state machine for a single player run.
// Responsibilities:
//   - Resolve free text against the pool, reject unknown and repeated guesses.
//   - Score accepted guesses against the fixed target and keep them newest-first.
//   - Track the active → won transition; a won session accepts nothing more.
//
// Unknown and repeated guesses are user-input errors: they are returned as
// sentinel errors with a display message and never touch the history.

package game

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrDuplicateGuess    = errors.New("character already guessed")
)

// IsUserInput reports whether err is a recoverable input error (not found / duplicate).
func IsUserInput(err error) bool {
	return errors.Is(err, ErrCharacterNotFound) || errors.Is(err, ErrDuplicateGuess)
}

// Outcome describes what a single Submit did.
type Outcome struct {
	// Result is set only when the guess was accepted.
	Result *GuessResult
	// Message is the transient text for the player (not found / duplicate / win).
	Message string
	State   State
	Guesses int
	// Ignored is true when the session was already won.
	Ignored bool
}

// Session owns the mutable state of one run. The pool and target are a
// snapshot taken at construction and never change.
type Session struct {
	mu sync.Mutex

	id      string
	pool    []Character
	target  Character
	history []GuessResult // newest first
	guessed map[int]struct{}
	guesses int
	won     bool
	input   string
	message string
}

// NewSession constructs an active session with an empty history.
func NewSession(id string, pool []Character, target Character) *Session {
	return &Session{
		id:      id,
		pool:    pool,
		target:  target,
		guessed: make(map[int]struct{}),
	}
}

// Submit runs the submission protocol for text:
// ignore if won → resolve → dedupe by ID → compare → prepend → win check.
// The whole protocol runs under the session lock.
func (s *Session) Submit(text string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.won {
		return Outcome{State: StateWon, Guesses: s.guesses, Message: s.message, Ignored: true}, nil
	}
	// The buffer is cleared after every attempt, accepted or not.
	s.input = ""

	c, ok := Resolve(text, s.pool)
	if !ok {
		s.message = "Character not found. Try again!"
		return s.outcome(nil), ErrCharacterNotFound
	}
	if _, dup := s.guessed[c.ID]; dup {
		s.message = fmt.Sprintf("You already guessed %s!", c.Name)
		return s.outcome(nil), ErrDuplicateGuess
	}

	c.Aliases = slices.Clone(c.Aliases)
	res := GuessResult{Character: c, Comparison: Compare(c, s.target)}
	prior := s.guesses
	s.history = append([]GuessResult{res}, s.history...)
	s.guessed[c.ID] = struct{}{}
	s.guesses++
	s.message = ""

	if c.ID == s.target.ID {
		s.won = true
		s.message = winMessage(prior)
	}
	return s.outcome(&res), nil
}

// winMessage phrases the win from the guess count before the winning guess.
func winMessage(prior int) string {
	if prior == 0 {
		return "You guessed it in one try!"
	}
	return fmt.Sprintf("You guessed it in %d tries!", prior+1)
}

func (s *Session) outcome(res *GuessResult) Outcome {
	return Outcome{Result: res, Message: s.message, State: s.state(), Guesses: s.guesses}
}

func (s *Session) state() State {
	if s.won {
		return StateWon
	}
	return StateActive
}

// SetInput replaces the input buffer and clears any transient message.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
	s.message = ""
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Pool returns the candidate snapshot the session was built with.
func (s *Session) Pool() []Character { return s.pool }

// Target returns the hidden character. Callers should only reveal it after a win.
func (s *Session) Target() Character { return s.target }

// History returns a copy of the guesses, newest first.
func (s *Session) History() []GuessResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GuessResult, len(s.history))
	for i, g := range s.history {
		g.Character.Aliases = slices.Clone(g.Character.Aliases)
		out[i] = g
	}
	return out
}

func (s *Session) Guesses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guesses
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) Won() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.won
}

func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}
