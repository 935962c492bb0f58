package charstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/huadle/assets"
	"github.com/robalobadob/huadle/internal/database"
	"github.com/robalobadob/huadle/internal/game"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "chars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, assets.Migrations()))
	return New(db)
}

func chungMyung() game.Character {
	return game.Character{
		Name:             "Cheong Myeong",
		Gender:           game.GenderMale,
		Affiliation:      "Mount Hua Sect",
		Height:           game.HeightAverage,
		FirstSeenChapter: 1,
		Aliases:          []string{"Plum Blossom Sword Saint", "Chung Myung"},
	}
}

func TestCRUDSequence(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Create(ctx, chungMyung())
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Cheong Myeong", got.Name)
	assert.Equal(t, []string{"Plum Blossom Sword Saint", "Chung Myung"}, got.Aliases)

	tall := game.HeightTall
	require.NoError(t, s.Update(ctx, id, Patch{Height: &tall}))
	require.NoError(t, s.ReplaceAliases(ctx, id, []string{"Plum Blossom Sword Saint", "Sword Demon"}))

	got, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, game.HeightTall, got.Height)
	assert.Equal(t, "Mount Hua Sect", got.Affiliation, "untouched by the patch")
	assert.Equal(t, []string{"Plum Blossom Sword Saint", "Sword Demon"}, got.Aliases)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(1) FROM character_aliases`).Scan(&n))
	assert.Zero(t, n, "aliases cascade with the character")
}

func TestMissingIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	name := "x"

	assert.ErrorIs(t, s.Update(ctx, 42, Patch{Name: &name}), ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, 42, Patch{}), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 42), ErrNotFound)
	assert.ErrorIs(t, s.ReplaceAliases(ctx, 42, []string{"a"}), ErrNotFound)
	assert.ErrorIs(t, s.AddAliases(ctx, 42, []string{"a"}), ErrNotFound)
}

func TestDuplicateNameRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Create(ctx, chungMyung())
	require.NoError(t, err)
	c := chungMyung()
	c.Name = "cheong myeong"
	_, err = s.Create(ctx, c)

	assert.Error(t, err)
}

func TestSeedAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	pool := []game.Character{
		{ID: 2, Name: "Baek Cheon", Gender: game.GenderMale, Height: game.HeightTall, FirstSeenChapter: 8},
		{ID: 1, Name: "Chung Myung", Gender: game.GenderMale, Height: game.HeightAverage, FirstSeenChapter: 1, Aliases: []string{"A", " ", "B"}},
	}

	added, err := s.Seed(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = s.Seed(ctx, pool)
	require.NoError(t, err)
	assert.Zero(t, added)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, []string{"A", "B"}, all[0].Aliases)
	assert.Equal(t, []string{}, all[1].Aliases)
}

func TestAddAliases(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := chungMyung()
	c.Aliases = nil
	id, err := s.Create(ctx, c)
	require.NoError(t, err)

	require.NoError(t, s.AddAliases(ctx, id, nil))
	require.NoError(t, s.AddAliases(ctx, id, []string{"Sword Demon"}))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sword Demon"}, got.Aliases)
}
