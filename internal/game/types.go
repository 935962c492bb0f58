// internal/game/types.go
//
// Core type definitions for the character-guessing engine.
// Defines:
//   - Character: one guessable record from the candidate pool.
//   - Result: per-attribute verdict of a guess (correct/incorrect/partial/...).
//   - Comparison / GuessResult: one scored guess.
//   - State: coarse session state (active/won).

package game

// Gender of a character.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Height is an ordinal category. Unknown has no rank.
type Height string

const (
	HeightUnknown Height = "Unknown"
	HeightShort   Height = "Short"
	HeightAverage Height = "Average"
	HeightTall    Height = "Tall"
)

// Rank maps the category onto Short=1 < Average=2 < Tall=3; Unknown (and
// anything unrecognised) is 0.
func (h Height) Rank() int {
	switch h {
	case HeightShort:
		return 1
	case HeightAverage:
		return 2
	case HeightTall:
		return 3
	default:
		return 0
	}
}

// ParseHeight accepts a category name case-insensitively; anything else is Unknown.
func ParseHeight(s string) Height {
	switch normalize(s) {
	case "short":
		return HeightShort
	case "average":
		return HeightAverage
	case "tall":
		return HeightTall
	default:
		return HeightUnknown
	}
}

// Result represents the evaluation of a single attribute of a guess.
// Possible values:
//   - "correct":   attribute matches the target.
//   - "incorrect": attribute differs and no hint is derivable.
//   - "partial":   aliases overlap but are not the same set.
//   - "higher"/"lower":   target height is above/below the guess.
//   - "earlier"/"later":  guess first appeared before/after the target.
type Result string

const (
	ResultCorrect   Result = "correct"
	ResultIncorrect Result = "incorrect"
	ResultPartial   Result = "partial"
	ResultHigher    Result = "higher"
	ResultLower     Result = "lower"
	ResultEarlier   Result = "earlier"
	ResultLater     Result = "later"
)

// Character is one entry of the candidate pool.
// ID and Name are both unique across a pool.
type Character struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Gender           Gender   `json:"gender"`
	Affiliation      string   `json:"affiliation"`
	Height           Height   `json:"height"`
	FirstSeenChapter int      `json:"firstSeenChapter"`
	Aliases          []string `json:"aliases"`
}

// Comparison holds one verdict per compared attribute. Every field is always set.
type Comparison struct {
	Name             Result `json:"name"`
	Gender           Result `json:"gender"`
	Affiliation      Result `json:"affiliation"`
	Height           Result `json:"height"`
	FirstSeenChapter Result `json:"firstSeenChapter"`
	Aliases          Result `json:"aliases"`
}

// GuessResult pairs a guessed character with its comparison.
// It is a value type and is never modified once built.
type GuessResult struct {
	Character  Character  `json:"guessedCharacter"`
	Comparison Comparison `json:"comparison"`
}

// State is the coarse session state.
type State string

const (
	StateActive State = "active"
	StateWon    State = "won"
)
