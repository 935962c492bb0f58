package game

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize is the single text normalization used for lookups and alias sets:
// trim, NFC-compose, lowercase.
func Normalize(s string) string { return normalize(s) }

func normalize(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// Resolve maps free text onto a pool entry by exact, case-insensitive name.
// It is not a prefix or substring match; see package suggest for that.
// Entries with a blank name are skipped. The bool is false when nothing matches.
func Resolve(text string, pool []Character) (Character, bool) {
	q := normalize(text)
	if q == "" {
		return Character{}, false
	}
	for _, c := range pool {
		n := normalize(c.Name)
		if n == "" {
			continue
		}
		if n == q {
			return c, true
		}
	}
	return Character{}, false
}
