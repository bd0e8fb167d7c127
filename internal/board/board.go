// internal/board/board.go
//
// Category acquisition and board construction.
// Responsibilities:
//   - Acquire: pick game.Categories distinct category ids, each backed by at
//     least game.CluesPerCategory clues, from random candidate batches.
//   - Load: Acquire ids, fetch each category in turn, build a game.Board.
//
// Retry rules:
//   - A batch containing a duplicate id or a thin category is discarded as a
//     whole and a fresh batch is requested.
//   - A fetched category with too few clues sends Load back to Acquire.
//   - Retries back off exponentially and stop after Policy.MaxAttempts;
//     running out returns ErrCandidatesExhausted.
//   - Transport errors from the source are not retried.

package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/internal/game"
	"github.com/robalobadob/jeopardy/internal/markup"
	"github.com/robalobadob/jeopardy/internal/trivia"
)

// ErrCandidatesExhausted is returned when no acceptable batch was found
// within the attempt budget.
var ErrCandidatesExhausted = errors.New("no acceptable category batch")

// Policy bounds the batch retry loop.
type Policy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy is used for zero fields of a Policy.
var DefaultPolicy = Policy{
	MaxAttempts:     10,
	InitialInterval: 200 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

// Loader builds boards from a trivia source.
type Loader struct {
	src    trivia.Source
	policy Policy
}

// NewLoader returns a Loader reading from src.
func NewLoader(src trivia.Source, p Policy) *Loader {
	if p.MaxAttempts == 0 {
		p.MaxAttempts = DefaultPolicy.MaxAttempts
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = DefaultPolicy.InitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = DefaultPolicy.MaxInterval
	}
	return &Loader{src: src, policy: p}
}

// rejectedError marks a batch that must be discarded and retried.
type rejectedError struct {
	id     int
	reason string
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("category %d: %s", e.id, e.reason)
}

// Acquire returns game.Categories distinct category ids with enough clues.
func (l *Loader) Acquire(ctx context.Context) ([]int, error) {
	return retry(ctx, l, func() ([]int, error) { return l.candidateBatch(ctx) })
}

// Load runs Acquire, then fetches each category in turn into a board.
// A category that turns out to hold too few clues discards the whole set
// and starts over with a fresh Acquire, at most Policy.MaxAttempts times.
func (l *Loader) Load(ctx context.Context) (*game.Board, error) {
	var rej *rejectedError
	for round := uint(1); ; round++ {
		ids, err := l.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		cats, err := l.fetch(ctx, ids)
		if err == nil {
			return game.NewBoard(cats)
		}
		if !errors.As(err, &rej) {
			return nil, err
		}
		if round >= l.policy.MaxAttempts {
			log.Warn().Err(err).Uint("rounds", round).Msg("category fetch exhausted")
			return nil, fmt.Errorf("%w after %d fetch rounds: %v", ErrCandidatesExhausted, round, err)
		}
		log.Debug().Err(err).Uint("round", round).Msg("fetched category rejected")
	}
}

// fetch loads ids sequentially, cleaning answer markup.
func (l *Loader) fetch(ctx context.Context, ids []int) ([]game.Category, error) {
	out := make([]game.Category, 0, len(ids))
	for _, id := range ids {
		c, err := l.src.Category(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch category %d: %w", id, err)
		}
		if len(c.Clues) < game.CluesPerCategory {
			return nil, &rejectedError{id: id, reason: fmt.Sprintf("fetched %d clues", len(c.Clues))}
		}
		out = append(out, toGameCategory(c))
	}
	return out, nil
}

// candidateBatch requests one batch and validates it.
func (l *Loader) candidateBatch(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, backoff.Permanent(err)
	}
	cands, err := l.src.RandomCandidates(ctx, game.Categories)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("random candidates: %w", err))
	}
	if len(cands) < game.Categories {
		return nil, &rejectedError{reason: fmt.Sprintf("batch of %d candidates", len(cands))}
	}

	ids := make([]int, 0, game.Categories)
	seen := make(map[int]bool, game.Categories)
	for _, c := range cands[:game.Categories] {
		if seen[c.ID] {
			return nil, &rejectedError{id: c.ID, reason: "duplicate"}
		}
		if c.CluesCount < game.CluesPerCategory {
			return nil, &rejectedError{id: c.ID, reason: fmt.Sprintf("only %d clues", c.CluesCount)}
		}
		seen[c.ID] = true
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// retry runs op under the loader's backoff policy.
func retry[T any](ctx context.Context, l *Loader, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.policy.InitialInterval
	b.MaxInterval = l.policy.MaxInterval

	var attempts uint
	counted := func() (T, error) {
		attempts++
		return op()
	}
	notify := func(err error, next time.Duration) {
		log.Debug().Err(err).Uint("attempt", attempts).Dur("next", next).Msg("category batch rejected")
	}

	res, err := backoff.Retry(ctx, counted,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(l.policy.MaxAttempts),
		backoff.WithNotify(notify),
	)
	if err == nil {
		return res, nil
	}

	var rej *rejectedError
	if errors.As(err, &rej) {
		log.Warn().Err(err).Uint("attempts", attempts).Msg("category acquisition exhausted")
		return res, fmt.Errorf("%w after %d attempts: %v", ErrCandidatesExhausted, attempts, err)
	}
	return res, err
}

// toGameCategory converts a fetched category, cleaning answer markup.
func toGameCategory(c trivia.Category) game.Category {
	clues := make([]game.Clue, 0, len(c.Clues))
	for _, cl := range c.Clues {
		clues = append(clues, game.Clue{Question: cl.Question, Answer: markup.Sanitize(cl.Answer)})
	}
	return game.Category{Title: c.Title, Clues: clues}
}
