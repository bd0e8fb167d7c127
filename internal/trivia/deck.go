// internal/trivia/deck.go
//
// In-memory trivia source.
//   - ParseDeck / NewDeck: load and validate a fixed category list
//     (the embedded assets/deck.json in offline mode).
//   - RandomCandidates draws without repeats; Category looks up by id.

package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
)

// Deck is an in-memory Source, used offline and when no API is configured.
// Random draws never repeat a category within one batch.
type Deck struct {
	cats []Category
	byID map[int]Category
	perm func(n int) []int
}

// ParseDeck decodes a JSON array of categories into a Deck.
// Category ids must be unique and non-zero.
func ParseDeck(data []byte) (*Deck, error) {
	var cats []Category
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("trivia: decode deck: %w", err)
	}
	return NewDeck(cats)
}

// NewDeck builds a Deck from cats.
func NewDeck(cats []Category) (*Deck, error) {
	if len(cats) == 0 {
		return nil, errors.New("trivia: empty deck")
	}
	byID := make(map[int]Category, len(cats))
	for _, c := range cats {
		if c.ID == 0 {
			return nil, fmt.Errorf("trivia: deck category %q has no id", c.Title)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("trivia: duplicate deck category id %d", c.ID)
		}
		byID[c.ID] = c
	}
	return &Deck{cats: cats, byID: byID, perm: rand.Perm}, nil
}

// WithRand makes the deck draw from r (for deterministic tests).
func (d *Deck) WithRand(r *rand.Rand) *Deck {
	d.perm = r.Perm
	return d
}

// Len is the number of categories in the deck.
func (d *Deck) Len() int { return len(d.cats) }

// RandomCandidates implements Source.
func (d *Deck) RandomCandidates(ctx context.Context, n int) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n > len(d.cats) {
		n = len(d.cats)
	}
	out := make([]Candidate, 0, n)
	for _, i := range d.perm(len(d.cats))[:n] {
		c := d.cats[i]
		out = append(out, Candidate{ID: c.ID, Title: c.Title, CluesCount: len(c.Clues)})
	}
	return out, nil
}

// Category implements Source.
func (d *Deck) Category(ctx context.Context, id int) (Category, error) {
	if err := ctx.Err(); err != nil {
		return Category{}, err
	}
	c, ok := d.byID[id]
	if !ok {
		return Category{}, fmt.Errorf("%w: no category %d in deck", ErrUnavailable, id)
	}
	return c, nil
}
