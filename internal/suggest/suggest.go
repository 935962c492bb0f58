// Package suggest implements name autocomplete over the candidate pool:
// a stable substring (or prefix) filter, the dropdown visibility rule, and a
// closest-name hint for guesses that do not resolve.
package suggest

import (
	"strings"

	"github.com/schollz/closestmatch"

	"github.com/robalobadob/huadle/internal/game"
)

// Mode selects how a query is matched against names.
type Mode int

const (
	Contains Mode = iota
	Prefix
)

// ParseMode maps "prefix" to Prefix; anything else is Contains.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "prefix") {
		return Prefix
	}
	return Contains
}

func (m Mode) String() string {
	if m == Prefix {
		return "prefix"
	}
	return "contains"
}

// Filter returns the pool entries whose normalized name matches text, in pool
// order. Empty text yields an empty result. Entries with a blank name are skipped.
func Filter(text string, pool []game.Character, mode Mode) []game.Character {
	q := game.Normalize(text)
	if q == "" {
		return []game.Character{}
	}
	out := []game.Character{}
	for _, c := range pool {
		n := game.Normalize(c.Name)
		if n == "" {
			continue
		}
		if matches(n, q, mode) {
			out = append(out, c)
		}
	}
	return out
}

func matches(name, q string, mode Mode) bool {
	if mode == Prefix {
		return strings.HasPrefix(name, q)
	}
	return strings.Contains(name, q)
}

// Visible is the dropdown rule: focused, non-empty text, at least one match.
func Visible(focused bool, text string, matches int) bool {
	return focused && game.Normalize(text) != "" && matches > 0
}

// DidYouMean returns the pool name closest to text, for hinting after a
// guess fails to resolve. ok is false when the pool has no usable names or
// nothing is close enough.
func DidYouMean(text string, pool []game.Character) (string, bool) {
	q := game.Normalize(text)
	if q == "" {
		return "", false
	}
	names := make([]string, 0, len(pool))
	byKey := make(map[string]string, len(pool))
	for _, c := range pool {
		n := game.Normalize(c.Name)
		if n == "" {
			continue
		}
		names = append(names, n)
		byKey[n] = c.Name
	}
	if len(names) == 0 {
		return "", false
	}
	cm := closestmatch.New(names, []int{2, 3})
	best := cm.Closest(q)
	name, ok := byKey[best]
	if !ok || best == q {
		return "", false
	}
	return name, true
}
