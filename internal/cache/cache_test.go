package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/jeopardy/internal/trivia"
)

type countingSource struct {
	categories int
	randoms    int
	err        error
}

func (c *countingSource) RandomCandidates(ctx context.Context, n int) ([]trivia.Candidate, error) {
	c.randoms++
	return []trivia.Candidate{{ID: 1, Title: "x", CluesCount: 3}}, nil
}

func (c *countingSource) Category(ctx context.Context, id int) (trivia.Category, error) {
	c.categories++
	if c.err != nil {
		return trivia.Category{}, c.err
	}
	return trivia.Category{
		ID:    id,
		Title: "math",
		Clues: []trivia.Clue{{Question: "2+2", Answer: "4"}, {Question: "1+1", Answer: "2"}},
	}, nil
}

func openTestDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data", "cache.db")
}

func TestCategoryIsCached(t *testing.T) {
	db, err := Open(openTestDB(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	up := &countingSource{}
	src := New(db, up, 0)
	ctx := context.Background()

	first, err := src.Category(ctx, 5)
	if err != nil {
		t.Fatalf("Category: %v", err)
	}
	second, err := src.Category(ctx, 5)
	if err != nil {
		t.Fatalf("Category: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached category differs (-first +second)\n%s", diff)
	}
	if up.categories != 1 {
		t.Errorf("upstream fetched %d times, want 1", up.categories)
	}
	if n, err := src.Len(ctx); err != nil || n != 1 {
		t.Errorf("Len = %d, %v; want 1", n, err)
	}
}

func TestCategoryExpires(t *testing.T) {
	db, err := Open(openTestDB(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	up := &countingSource{}
	src := New(db, up, time.Hour)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return now }
	ctx := context.Background()

	if _, err := src.Category(ctx, 5); err != nil {
		t.Fatalf("Category: %v", err)
	}
	now = now.Add(30 * time.Minute)
	if _, err := src.Category(ctx, 5); err != nil {
		t.Fatalf("Category: %v", err)
	}
	if up.categories != 1 {
		t.Fatalf("upstream fetched %d times before expiry, want 1", up.categories)
	}
	now = now.Add(2 * time.Hour)
	if _, err := src.Category(ctx, 5); err != nil {
		t.Fatalf("Category: %v", err)
	}
	if up.categories != 2 {
		t.Errorf("upstream fetched %d times after expiry, want 2", up.categories)
	}
}

func TestUpstreamErrorNotCached(t *testing.T) {
	db, err := Open(openTestDB(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	up := &countingSource{err: trivia.ErrUnavailable}
	src := New(db, up, 0)
	if _, err := src.Category(context.Background(), 5); !errors.Is(err, trivia.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if n, _ := src.Len(context.Background()); n != 0 {
		t.Errorf("cached %d categories after a failed fetch", n)
	}
}

func TestRandomCandidatesPassThrough(t *testing.T) {
	db, err := Open(openTestDB(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	up := &countingSource{}
	src := New(db, up, 0)
	for i := 0; i < 3; i++ {
		if _, err := src.RandomCandidates(context.Background(), 6); err != nil {
			t.Fatalf("RandomCandidates: %v", err)
		}
	}
	if up.randoms != 3 {
		t.Errorf("upstream random calls = %d, want 3", up.randoms)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := openTestDB(t)
	for i := 0; i < 2; i++ {
		db, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		var n int
		if err := db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
			t.Fatalf("count migrations: %v", err)
		}
		if n != 1 {
			t.Errorf("Open #%d: %d migrations recorded, want 1", i+1, n)
		}
		db.Close()
	}
}
