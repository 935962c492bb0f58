// internal/characters/characters.go
//
// Candidate pool loading for the game engine.
//
// Responsibilities:
//   - Load the pool from a JSON file, the SQLite catalogue, or the embedded default.
//   - Drop malformed entries (blank name, bad ID/chapter, duplicate ID or name) with a warning.
//   - Supply lookups: All, ByID, At, RandomTarget, Len.
//
// Source selection (Load):
//   1. Options.File set → read that JSON array.
//   2. Options.Store set → read the characters/character_aliases tables. An empty
//      catalogue is an error; SeedEmpty fills it from the embedded default and
//      is called once at startup.
//   3. Otherwise → embedded assets/characters.json.
//
// A Pool is an immutable snapshot; sessions keep the slice they were given.

package characters

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/huadle/assets"
	"github.com/robalobadob/huadle/internal/charstore"
	"github.com/robalobadob/huadle/internal/game"
)

// ErrEmptyPool is returned when no usable character survives loading.
var ErrEmptyPool = errors.New("characters: pool is empty")

// Options selects the pool source.
type Options struct {
	File  string
	Store *charstore.Store
}

// Pool is a read-only, ordered set of characters.
type Pool struct {
	list []game.Character
	byID map[int]int
}

// Load builds a Pool from the configured source.
func Load(ctx context.Context, opts Options) (*Pool, error) {
	var (
		raw    []game.Character
		source string
		err    error
	)
	switch {
	case opts.File != "":
		source = opts.File
		raw, err = readFile(opts.File)
	case opts.Store != nil:
		source = "sqlite"
		raw, err = fromStore(ctx, opts.Store)
	default:
		source = "embedded"
		raw, err = Embedded()
	}
	if err != nil {
		return nil, fmt.Errorf("load characters from %s: %w", source, err)
	}

	p := New(raw)
	if len(p.list) == 0 {
		return nil, ErrEmptyPool
	}
	log.Info().Str("source", source).Int("characters", len(p.list)).Msg("character pool loaded")
	return p, nil
}

// New sanitizes raw and indexes the result.
func New(raw []game.Character) *Pool {
	list := Sanitize(raw)
	byID := make(map[int]int, len(list))
	for i, c := range list {
		byID[c.ID] = i
	}
	return &Pool{list: list, byID: byID}
}

// Embedded decodes the bundled default pool.
func Embedded() ([]game.Character, error) {
	b, err := assets.CharactersJSON()
	if err != nil {
		return nil, err
	}
	return decode(b)
}

func readFile(path string) ([]game.Character, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(b)
}

func decode(b []byte) ([]game.Character, error) {
	var out []game.Character
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode characters: %w", err)
	}
	return out, nil
}

func fromStore(ctx context.Context, st *charstore.Store) ([]game.Character, error) {
	return st.List(ctx)
}

// SeedEmpty copies the embedded default into st when the catalogue has no
// characters, and reports how many were added.
func SeedEmpty(ctx context.Context, st *charstore.Store) (int, error) {
	list, err := st.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(list) > 0 {
		return 0, nil
	}
	def, err := Embedded()
	if err != nil {
		return 0, err
	}
	n, err := st.Seed(ctx, Sanitize(def))
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	log.Info().Int("added", n).Msg("seeded empty character catalogue")
	return n, nil
}

// Sanitize drops entries the engine cannot use and normalizes the rest
// (unknown height labels become Unknown, blank aliases are removed).
// The first occurrence wins for duplicate IDs and names.
func Sanitize(raw []game.Character) []game.Character {
	out := make([]game.Character, 0, len(raw))
	seenID := make(map[int]struct{}, len(raw))
	seenName := make(map[string]struct{}, len(raw))
	for i, c := range raw {
		key := game.Normalize(c.Name)
		var reason string
		switch {
		case key == "":
			reason = "blank name"
		case c.ID <= 0:
			reason = "non-positive id"
		case c.FirstSeenChapter <= 0:
			reason = "non-positive first seen chapter"
		}
		if reason == "" {
			if _, dup := seenID[c.ID]; dup {
				reason = "duplicate id"
			} else if _, dup := seenName[key]; dup {
				reason = "duplicate name"
			}
		}
		if reason != "" {
			log.Warn().Int("index", i).Int("id", c.ID).Str("name", c.Name).Str("reason", reason).
				Msg("skipping malformed character")
			continue
		}
		seenID[c.ID] = struct{}{}
		seenName[key] = struct{}{}

		c.Height = game.ParseHeight(string(c.Height))
		aliases := make([]string, 0, len(c.Aliases))
		for _, a := range c.Aliases {
			if game.Normalize(a) != "" {
				aliases = append(aliases, a)
			}
		}
		c.Aliases = aliases
		out = append(out, c)
	}
	return out
}

// All returns the pool in its original order. The slice must not be modified.
func (p *Pool) All() []game.Character { return p.list }

// ByID looks up a character by identity.
func (p *Pool) ByID(id int) (game.Character, bool) {
	i, ok := p.byID[id]
	if !ok {
		return game.Character{}, false
	}
	return p.list[i], true
}

// At returns the i-th character; i is taken modulo the pool size.
func (p *Pool) At(i int) game.Character {
	n := len(p.list)
	return p.list[((i%n)+n)%n]
}

// RandomTarget returns a cryptographically random character.
func (p *Pool) RandomTarget() game.Character {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(p.list))))
	if err != nil {
		return p.list[0]
	}
	return p.list[n.Int64()]
}

// Len reports the pool size.
func (p *Pool) Len() int { return len(p.list) }
