// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/robalobadob/jeopardy/internal/board"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port         string `env:"PORT"          envDefault:"5175"`
	LogLevel     string `env:"LOG_LEVEL"     envDefault:"info"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5175"`

	// RequestTimeout bounds a whole board load, retries included.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	TriviaBaseURL string        `env:"TRIVIA_BASE_URL" envDefault:"http://jservice.io"`
	TriviaTimeout time.Duration `env:"TRIVIA_TIMEOUT"  envDefault:"10s"`
	TriviaOffline bool          `env:"TRIVIA_OFFLINE"  envDefault:"false"`

	AcquireMaxAttempts     uint          `env:"ACQUIRE_MAX_ATTEMPTS"     envDefault:"10"`
	AcquireInitialInterval time.Duration `env:"ACQUIRE_INITIAL_INTERVAL" envDefault:"200ms"`
	AcquireMaxInterval     time.Duration `env:"ACQUIRE_MAX_INTERVAL"     envDefault:"5s"`

	CacheDSN    string        `env:"CACHE_DSN"     envDefault:"./data/cache.db"`
	CacheMaxAge time.Duration `env:"CACHE_MAX_AGE" envDefault:"168h"`

	SessionSecret string        `env:"SESSION_SECRET"   envDefault:"dev_secret_change_me"`
	SessionTTL    time.Duration `env:"SESSION_TTL"      envDefault:"24h"`
	SessionIdle   time.Duration `env:"SESSION_IDLE"     envDefault:"2h"`
	Production    bool          `env:"PRODUCTION"       envDefault:"false"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: PORT is empty")
	}
	if !c.TriviaOffline && c.TriviaBaseURL == "" {
		return errors.New("config: TRIVIA_BASE_URL is required unless TRIVIA_OFFLINE is set")
	}
	if c.AcquireMaxAttempts == 0 {
		return errors.New("config: ACQUIRE_MAX_ATTEMPTS must be at least 1")
	}
	if c.SessionSecret == "" {
		return errors.New("config: SESSION_SECRET is empty")
	}
	if c.Production && c.SessionSecret == "dev_secret_change_me" {
		return errors.New("config: SESSION_SECRET must be set in production")
	}
	return nil
}

// AcquirePolicy returns the category acquisition retry policy.
func (c Config) AcquirePolicy() board.Policy {
	return board.Policy{
		MaxAttempts:     c.AcquireMaxAttempts,
		InitialInterval: c.AcquireInitialInterval,
		MaxInterval:     c.AcquireMaxInterval,
	}
}
