// Package cache keeps fetched trivia categories in SQLite so repeat games
// do not refetch categories the source has already served.
//
// Only Category lookups are cached. Random candidate draws always go to the
// upstream source. A cache failure never fails a lookup: it is logged and
// the upstream source answers instead.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/internal/trivia"
)

// Source is a trivia.Source that caches categories from upstream.
type Source struct {
	db       *sql.DB
	upstream trivia.Source
	maxAge   time.Duration
	now      func() time.Time
}

// New wraps upstream with a cache stored in db. Entries older than maxAge
// are refetched; maxAge <= 0 keeps entries forever.
func New(db *sql.DB, upstream trivia.Source, maxAge time.Duration) *Source {
	return &Source{db: db, upstream: upstream, maxAge: maxAge, now: time.Now}
}

// RandomCandidates implements trivia.Source.
func (s *Source) RandomCandidates(ctx context.Context, n int) ([]trivia.Candidate, error) {
	return s.upstream.RandomCandidates(ctx, n)
}

// Category implements trivia.Source.
func (s *Source) Category(ctx context.Context, id int) (trivia.Category, error) {
	c, err := s.lookup(ctx, id)
	switch {
	case err == nil:
		return c, nil
	case !errors.Is(err, sql.ErrNoRows):
		log.Warn().Err(err).Int("categoryId", id).Msg("category cache lookup")
	}

	c, err = s.upstream.Category(ctx, id)
	if err != nil {
		return trivia.Category{}, err
	}
	if c.ID == 0 {
		c.ID = id
	}
	if err := s.store(ctx, c); err != nil {
		log.Warn().Err(err).Int("categoryId", id).Msg("category cache store")
	}
	return c, nil
}

// lookup returns a fresh cached category or sql.ErrNoRows.
func (s *Source) lookup(ctx context.Context, id int) (trivia.Category, error) {
	var (
		c       = trivia.Category{ID: id}
		clues   string
		fetched string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT title, clues, fetched_at FROM categories WHERE id=?`, id,
	).Scan(&c.Title, &clues, &fetched)
	if err != nil {
		return trivia.Category{}, err
	}

	if s.maxAge > 0 {
		t, err := time.Parse(time.RFC3339, fetched)
		if err != nil || s.now().Sub(t) > s.maxAge {
			return trivia.Category{}, sql.ErrNoRows
		}
	}
	if err := json.Unmarshal([]byte(clues), &c.Clues); err != nil {
		return trivia.Category{}, err
	}
	return c, nil
}

// store upserts c.
func (s *Source) store(ctx context.Context, c trivia.Category) error {
	clues, err := json.Marshal(c.Clues)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO categories (id, title, clues, fetched_at)
        VALUES (?, ?, ?, ?)`,
		c.ID, c.Title, string(clues), s.now().UTC().Format(time.RFC3339),
	)
	return err
}

// Len reports how many categories are cached.
func (s *Source) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM categories`).Scan(&n)
	return n, err
}
