package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/huadle/internal/game"
)

func pool() []game.Character {
	return []game.Character{
		{ID: 1, Name: "Chung Myung"},
		{ID: 2, Name: "Baek Cheon"},
		{ID: 3, Name: "Yoon Jong"},
		{ID: 4, Name: ""},
		{ID: 5, Name: "Baek Sang"},
		{ID: 6, Name: "Jo Gul"},
	}
}

func names(cs []game.Character) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestFilter_ContainsKeepsPoolOrder(t *testing.T) {
	got := Filter("  BAEK ", pool(), Contains)
	assert.Equal(t, []string{"Baek Cheon", "Baek Sang"}, names(got))

	got = Filter("ng", pool(), Contains)
	assert.Equal(t, []string{"Chung Myung", "Yoon Jong", "Baek Sang"}, names(got))
}

func TestFilter_Prefix(t *testing.T) {
	assert.Equal(t, []string{"Jo Gul"}, names(Filter("jo", pool(), Prefix)))
	assert.Equal(t, []string{"Yoon Jong", "Jo Gul"}, names(Filter("jo", pool(), Contains)))
}

func TestFilter_EmptyAndNoMatch(t *testing.T) {
	assert.Empty(t, Filter("", pool(), Contains))
	assert.Empty(t, Filter("   ", pool(), Contains))
	assert.Empty(t, Filter("zzz", pool(), Contains))
	assert.NotNil(t, Filter("", pool(), Contains))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, Prefix, ParseMode("Prefix"))
	assert.Equal(t, Contains, ParseMode(""))
	assert.Equal(t, Contains, ParseMode("fuzzy"))
	assert.Equal(t, "prefix", Prefix.String())
}

func TestVisible(t *testing.T) {
	assert.True(t, Visible(true, "ba", 2))
	assert.False(t, Visible(false, "ba", 2))
	assert.False(t, Visible(true, " ", 2))
	assert.False(t, Visible(true, "ba", 0))
}

func TestDidYouMean(t *testing.T) {
	name, ok := DidYouMean("chung myng", pool())
	require.True(t, ok)
	assert.Equal(t, "Chung Myung", name)

	_, ok = DidYouMean("", pool())
	assert.False(t, ok)
	_, ok = DidYouMean("abc", nil)
	assert.False(t, ok)
}
