package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/huadle/assets"
	"github.com/robalobadob/huadle/internal/characters"
	"github.com/robalobadob/huadle/internal/charstore"
	"github.com/robalobadob/huadle/internal/config"
	"github.com/robalobadob/huadle/internal/database"
	"github.com/robalobadob/huadle/internal/httpserver"
	"github.com/robalobadob/huadle/internal/metrics"
	"github.com/robalobadob/huadle/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer db.Close()
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	chars := charstore.New(db)
	opts := characters.Options{File: cfg.CharactersFile}
	if cfg.PoolSource == "sqlite" {
		if _, err := characters.SeedEmpty(ctx, chars); err != nil {
			log.Fatal().Err(err).Msg("failed to seed character catalogue")
		}
		opts.Store = chars
	}
	pool, err := characters.Load(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load character pool")
	}

	srv := httpserver.New(httpserver.Deps{
		Config:   cfg,
		Pool:     pool,
		Sessions: store.NewMemoryStore(),
		DB:       db,
		Chars:    chars,
		Metrics:  metrics.New(),
	})
	log.Info().Str("port", cfg.Port).Str("pool", cfg.PoolSource).Msg("starting huadle server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
