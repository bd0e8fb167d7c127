package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/assets"
	"github.com/robalobadob/jeopardy/internal/board"
	"github.com/robalobadob/jeopardy/internal/cache"
	"github.com/robalobadob/jeopardy/internal/config"
	"github.com/robalobadob/jeopardy/internal/httpserver"
	"github.com/robalobadob/jeopardy/internal/lifecycle"
	"github.com/robalobadob/jeopardy/internal/store"
	"github.com/robalobadob/jeopardy/internal/trivia"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSrc, err := newSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up trivia source")
	}
	defer closeSrc()

	mem := store.NewMemoryStore()
	go mem.RunSweeper(ctx, time.Minute, cfg.SessionIdle, func(n int) {
		log.Info().Int("games", n).Msg("swept idle games")
	})

	ctl := lifecycle.New(board.NewLoader(src, cfg.AcquirePolicy()))
	srv := httpserver.New(mem, ctl, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		SessionSecret:  cfg.SessionSecret,
		SessionTTL:     cfg.SessionTTL,
		Secure:         cfg.Production,
		RequestTimeout: cfg.RequestTimeout,
	})

	log.Info().Str("port", cfg.Port).Bool("offline", cfg.TriviaOffline).Msg("starting jeopardy server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// newSource picks the embedded deck or the remote API, the latter behind
// the SQLite category cache when CACHE_DSN is set.
func newSource(cfg config.Config) (trivia.Source, func(), error) {
	if cfg.TriviaOffline {
		data, err := assets.DeckJSON()
		if err != nil {
			return nil, nil, err
		}
		deck, err := trivia.ParseDeck(data)
		if err != nil {
			return nil, nil, err
		}
		return deck, func() {}, nil
	}

	client, err := trivia.NewClient(cfg.TriviaBaseURL, cfg.TriviaTimeout)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CacheDSN == "" {
		return client, func() {}, nil
	}
	db, err := cache.Open(cfg.CacheDSN)
	if err != nil {
		return nil, nil, err
	}
	return cache.New(db, client, cfg.CacheMaxAge), func() { _ = db.Close() }, nil
}
