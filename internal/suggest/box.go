package suggest

import (
	"sync"

	"github.com/robalobadob/huadle/internal/game"
)

// Box is the visibility state of one autocomplete widget: an input that may
// hold focus plus the dropdown of matches under it.
//
// Selecting a suggestion and clicking outside both hide the list, but they are
// separate events: a click that lands on the list is a Select, never a
// ClickOutside, so the selection completes before the list collapses.
type Box struct {
	mu sync.Mutex

	pool      []game.Character
	mode      Mode
	input     string
	focused   bool
	matches   []game.Character
	dismissed bool
}

// NewBox builds a widget over a fixed pool snapshot.
func NewBox(pool []game.Character, mode Mode) *Box {
	return &Box{pool: pool, mode: mode, matches: []game.Character{}}
}

// SetInput records typed text, refilters and lifts any dismissal.
func (b *Box) SetInput(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.input = text
	b.matches = Filter(text, b.pool, b.mode)
	b.dismissed = false
}

// Focus marks the input as focused and lifts any dismissal.
func (b *Box) Focus() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focused = true
	b.dismissed = false
}

func (b *Box) Blur() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focused = false
}

// Select puts c's canonical name in the input and hides the list, even though
// focus stays in the widget. It returns the new input text.
func (b *Box) Select(c game.Character) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.input = c.Name
	b.matches = Filter(c.Name, b.pool, b.mode)
	b.dismissed = true
	return b.input
}

// ClickOutside hides the list regardless of focus.
func (b *Box) ClickOutside() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dismissed = true
}

// Clear empties the input, e.g. after a submission.
func (b *Box) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.input = ""
	b.matches = []game.Character{}
	b.dismissed = false
}

func (b *Box) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.dismissed && Visible(b.focused, b.input, len(b.matches))
}

func (b *Box) Input() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.input
}

// Matches returns a copy of the current filtered list.
func (b *Box) Matches() []game.Character {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]game.Character, len(b.matches))
	copy(out, b.matches)
	return out
}
