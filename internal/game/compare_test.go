package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func char(id int, name string) Character {
	return Character{
		ID:               id,
		Name:             name,
		Gender:           GenderMale,
		Affiliation:      "Mount Hua Sect",
		Height:           HeightAverage,
		FirstSeenChapter: 1,
	}
}

func TestCompare_Identical(t *testing.T) {
	c := char(1, "Chung Myung")
	c.Aliases = []string{"Plum Blossom Sword Saint"}

	cmp := Compare(c, c)

	assert.Equal(t, Comparison{
		Name: ResultCorrect, Gender: ResultCorrect, Affiliation: ResultCorrect,
		Height: ResultCorrect, FirstSeenChapter: ResultCorrect, Aliases: ResultCorrect,
	}, cmp)
}

func TestCompare_Example(t *testing.T) {
	target := char(1, "Target")
	target.Aliases = []string{"A", "B"}
	guess := char(2, "Guess")
	guess.Height = HeightTall
	guess.FirstSeenChapter = 20
	guess.Aliases = []string{"B"}

	cmp := Compare(guess, target)

	assert.Equal(t, ResultIncorrect, cmp.Name)
	assert.Equal(t, ResultLower, cmp.Height)
	assert.Equal(t, ResultLater, cmp.FirstSeenChapter)
	assert.Equal(t, ResultPartial, cmp.Aliases)
}

func TestCompare_GenderAndAffiliationExact(t *testing.T) {
	target := char(1, "A")
	guess := char(2, "B")
	guess.Gender = GenderFemale
	guess.Affiliation = "Mount Hua"

	cmp := Compare(guess, target)

	assert.Equal(t, ResultIncorrect, cmp.Gender)
	assert.Equal(t, ResultIncorrect, cmp.Affiliation)
}

func TestCompareHeight(t *testing.T) {
	cases := []struct {
		guess, target Height
		want          Result
	}{
		{HeightShort, HeightShort, ResultCorrect},
		{HeightTall, HeightAverage, ResultLower},
		{HeightShort, HeightTall, ResultHigher},
		{HeightUnknown, HeightTall, ResultIncorrect},
		{HeightShort, HeightUnknown, ResultIncorrect},
		{HeightUnknown, HeightUnknown, ResultIncorrect},
		{Height("giant"), HeightTall, ResultIncorrect},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, compareHeight(tc.guess, tc.target), "%s vs %s", tc.guess, tc.target)
	}
}

func TestCompareHeight_Asymmetry(t *testing.T) {
	ranked := []Height{HeightShort, HeightAverage, HeightTall}
	for _, g := range ranked {
		for _, tg := range ranked {
			fwd := compareHeight(g, tg)
			back := compareHeight(tg, g)
			switch fwd {
			case ResultLower:
				assert.Equal(t, ResultHigher, back)
			case ResultHigher:
				assert.Equal(t, ResultLower, back)
			case ResultCorrect:
				assert.Equal(t, g, tg)
			default:
				t.Errorf("unexpected verdict %q for %s vs %s", fwd, g, tg)
			}
		}
	}
}

func TestCompareChapter(t *testing.T) {
	assert.Equal(t, ResultCorrect, compareChapter(5, 5))
	assert.Equal(t, ResultLater, compareChapter(20, 1))
	assert.Equal(t, ResultEarlier, compareChapter(1, 20))
}

func TestCompareAliases(t *testing.T) {
	cases := []struct {
		name          string
		guess, target []string
		want          Result
	}{
		{"both empty", nil, nil, ResultCorrect},
		{"blank only", []string{"  ", ""}, nil, ResultCorrect},
		{"same order", []string{"A", "B"}, []string{"A", "B"}, ResultCorrect},
		{"reordered", []string{"B", "A"}, []string{"A", "B"}, ResultCorrect},
		{"duplicates", []string{"A", "a", "B", "B"}, []string{"b", "A"}, ResultCorrect},
		{"subset", []string{"B"}, []string{"A", "B"}, ResultPartial},
		{"superset", []string{"A", "B", "C"}, []string{"A"}, ResultPartial},
		{"disjoint", []string{"C"}, []string{"A", "B"}, ResultIncorrect},
		{"one side empty", nil, []string{"A"}, ResultIncorrect},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, compareAliases(tc.guess, tc.target))
		})
	}
}

func TestCompare_NameCorrectIffSameCharacter(t *testing.T) {
	pool := []Character{char(1, "A"), char(2, "B"), char(3, "C")}
	for _, g := range pool {
		for _, tg := range pool {
			got := Compare(g, tg).Name == ResultCorrect
			assert.Equal(t, g.ID == tg.ID, got)
		}
	}
}

func TestParseHeight(t *testing.T) {
	assert.Equal(t, HeightTall, ParseHeight(" TALL "))
	assert.Equal(t, HeightShort, ParseHeight("short"))
	assert.Equal(t, HeightAverage, ParseHeight("Average"))
	assert.Equal(t, HeightUnknown, ParseHeight("175"))
	assert.Equal(t, 0, HeightUnknown.Rank())
}
