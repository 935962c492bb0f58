package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBox_EmptyInputHidden(t *testing.T) {
	b := NewBox(pool(), Contains)
	b.Focus()
	b.SetInput("")

	assert.False(t, b.Visible())
	assert.Empty(t, b.Matches())
}

func TestBox_NoMatchHidden(t *testing.T) {
	b := NewBox(pool(), Contains)
	b.Focus()
	b.SetInput("xyz")

	assert.False(t, b.Visible())
}

func TestBox_FocusedMatchesVisible(t *testing.T) {
	b := NewBox(pool(), Contains)
	b.Focus()
	b.SetInput("baek")

	assert.True(t, b.Visible())
	assert.Len(t, b.Matches(), 2)

	b.Blur()
	assert.False(t, b.Visible())
	b.Focus()
	assert.True(t, b.Visible())
}

func TestBox_SelectSetsNameAndHides(t *testing.T) {
	b := NewBox(pool(), Contains)
	b.Focus()
	b.SetInput("baek")
	pick := b.Matches()[1]

	got := b.Select(pick)

	assert.Equal(t, "Baek Sang", got)
	assert.Equal(t, "Baek Sang", b.Input())
	assert.False(t, b.Visible(), "hidden while focus remains")

	b.SetInput("Baek S")
	assert.True(t, b.Visible(), "typing again re-opens the list")
}

func TestBox_ClickOutsideHidesRegardlessOfFocus(t *testing.T) {
	b := NewBox(pool(), Contains)
	b.Focus()
	b.SetInput("jo")
	assert.True(t, b.Visible())

	b.ClickOutside()

	assert.False(t, b.Visible())
	assert.Equal(t, "jo", b.Input())
}

func TestBox_Clear(t *testing.T) {
	b := NewBox(pool(), Prefix)
	b.Focus()
	b.SetInput("jo")
	b.Clear()

	assert.Equal(t, "", b.Input())
	assert.False(t, b.Visible())
}
