// Package main runs a create → read → update → read (→ delete) round trip
// against the SQLite character catalogue and logs every step.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/huadle/assets"
	"github.com/robalobadob/huadle/internal/charstore"
	"github.com/robalobadob/huadle/internal/config"
	"github.com/robalobadob/huadle/internal/database"
	"github.com/robalobadob/huadle/internal/game"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var keep bool
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.BoolVar(&keep, "keep", false, "keep the test character instead of deleting it")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.DBPath, !keep); err != nil {
		log.Error().Err(err).Msg("character check failed")
		os.Exit(1)
	}
	log.Info().Msg("character check passed")
}

// run opens dbPath, applies migrations and exercises the store.
func run(ctx context.Context, dbPath string, cleanup bool) error {
	db, err := database.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		return err
	}
	return check(ctx, charstore.New(db), cleanup)
}

func check(ctx context.Context, st *charstore.Store, cleanup bool) error {
	log.Info().Str("step", "create").Msg("creating character")
	id, err := st.Create(ctx, game.Character{
		Name:             "Cheong Myeong",
		Gender:           game.GenderMale,
		Affiliation:      "Mount Hua Sect",
		Height:           game.HeightAverage,
		FirstSeenChapter: 1,
	})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := st.AddAliases(ctx, id, []string{"Plum Blossom Sword Saint", "Chung Myung"}); err != nil {
		return fmt.Errorf("add aliases: %w", err)
	}
	log.Info().Str("step", "create").Int("id", id).Msg("character created")

	created, err := st.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	log.Info().Str("step", "read").Str("name", created.Name).Strs("aliases", created.Aliases).Msg("fetched")

	tall := game.HeightTall
	if err := st.Update(ctx, id, charstore.Patch{Height: &tall}); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if err := st.ReplaceAliases(ctx, id, []string{"Plum Blossom Sword Saint", "Sword Demon"}); err != nil {
		return fmt.Errorf("replace aliases: %w", err)
	}
	updated, err := st.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("read after update: %w", err)
	}
	if updated.Height != tall {
		return fmt.Errorf("height is %s after update, want %s", updated.Height, tall)
	}
	log.Info().Str("step", "update").Str("height", string(updated.Height)).Strs("aliases", updated.Aliases).Msg("updated")

	if !cleanup {
		log.Info().Int("id", id).Msg("keeping test character")
		return nil
	}
	if err := st.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if _, err := st.Get(ctx, id); !errors.Is(err, charstore.ErrNotFound) {
		return fmt.Errorf("character %d still readable after delete: %v", id, err)
	}
	log.Info().Str("step", "delete").Int("id", id).Msg("deleted")
	return nil
}
