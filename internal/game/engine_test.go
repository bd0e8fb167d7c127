package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// seqRand replays a fixed list of draws, reduced modulo n.
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) IntN(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func testCategories(cluesPer int) []Category {
	cats := make([]Category, Categories)
	for i := range cats {
		cats[i].Title = fmt.Sprintf("cat%d", i)
		for j := 0; j < cluesPer; j++ {
			cats[i].Clues = append(cats[i].Clues, Clue{
				Question: fmt.Sprintf("q%d.%d", i, j),
				Answer:   fmt.Sprintf("a%d.%d", i, j),
			})
		}
	}
	return cats
}

func testBoard(t *testing.T, cluesPer int) *Board {
	t.Helper()
	b, err := NewBoard(testCategories(cluesPer))
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return b
}

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name string
		cats []Category
	}{
		{"too few", testCategories(2)[:5]},
		{"too many", append(testCategories(2), Category{Title: "extra", Clues: []Clue{{}}})},
		{"empty category", func() []Category {
			c := testCategories(2)
			c[3].Clues = nil
			return c
		}()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewBoard(tc.cats); !errors.Is(err, ErrInvalidBoard) {
				t.Errorf("NewBoard err = %v, want ErrInvalidBoard", err)
			}
		})
	}

	if _, err := NewBoard(testCategories(1)); err != nil {
		t.Errorf("single-clue categories should be accepted, got %v", err)
	}
}

func TestNewBoardCopiesClues(t *testing.T) {
	cats := testCategories(2)
	b, err := NewBoard(cats)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	cats[0].Clues[0].Question = "changed"
	got, _ := b.Category(0)
	if got.Clues[0].Question != "q0.0" {
		t.Errorf("board shares clue storage with caller: %q", got.Clues[0].Question)
	}
}

func TestStart(t *testing.T) {
	b := testBoard(t, 2)
	s, cmds := Start(b)

	if diff := cmp.Diff(State{LastClue: NoClue}, s); diff != "" {
		t.Errorf("unexpected start state (-want +got)\n%s", diff)
	}
	want := []Command{{Op: OpTitle, Text: "cat0"}, {Op: OpQuestion}, {Op: OpAnswer}}
	if diff := cmp.Diff(want, cmds); diff != "" {
		t.Errorf("unexpected start commands (-want +got)\n%s", diff)
	}
}

func TestNextSequence(t *testing.T) {
	b := testBoard(t, 3)
	rng := &seqRand{vals: []int{1, 2, 0, 2}}
	s, _ := Start(b)

	type step struct {
		cmds  []Command
		state State
	}
	want := []step{
		{
			cmds:  []Command{{Op: OpAnswer}, {Op: OpQuestion, Text: "q0.1"}},
			state: State{Category: 0, Shown: 0, LastClue: 1, Awaiting: true, Pending: "Answer: a0.1"},
		},
		{
			cmds:  []Command{{Op: OpAnswer, Text: "Answer: a0.1"}},
			state: State{Category: 0, Shown: 1, LastClue: 1},
		},
		{
			cmds:  []Command{{Op: OpAnswer}, {Op: OpQuestion, Text: "q0.2"}},
			state: State{Category: 0, Shown: 1, LastClue: 2, Awaiting: true, Pending: "Answer: a0.2"},
		},
		{
			cmds:  []Command{{Op: OpAnswer, Text: "Answer: a0.2"}},
			state: State{Category: 0, Shown: 2, LastClue: 2},
		},
		{
			// advance-then-reveal; LastClue was reset so index 0 is allowed.
			cmds:  []Command{{Op: OpTitle, Text: "cat1"}, {Op: OpAnswer}, {Op: OpQuestion, Text: "q1.0"}},
			state: State{Category: 1, Shown: 0, LastClue: 0, Awaiting: true, Pending: "Answer: a1.0"},
		},
	}

	for i, w := range want {
		var cmds []Command
		s, cmds = Next(b, s, rng)
		if diff := cmp.Diff(w.cmds, cmds); diff != "" {
			t.Errorf("click %d: unexpected commands (-want +got)\n%s", i+1, diff)
		}
		if diff := cmp.Diff(w.state, s); diff != "" {
			t.Errorf("click %d: unexpected state (-want +got)\n%s", i+1, diff)
		}
	}
}

func TestNextDoesNotModifyInput(t *testing.T) {
	b := testBoard(t, 2)
	s, _ := Start(b)
	before := s
	_, _ = Next(b, s, &seqRand{vals: []int{0}})
	if diff := cmp.Diff(before, s); diff != "" {
		t.Errorf("input state modified (-before +after)\n%s", diff)
	}
}

func TestFullGame(t *testing.T) {
	b := testBoard(t, 2)
	rng := rand.New(rand.NewPCG(1, 2))
	s, _ := Start(b)

	var questions, answers, clicks int
	for !s.Over() {
		clicks++
		if clicks > 100 {
			t.Fatal("game did not terminate")
		}
		var cmds []Command
		s, cmds = Next(b, s, rng)
		for _, c := range cmds {
			switch {
			case c.Op == OpQuestion:
				questions++
			case c.Op == OpAnswer && c.Text != "":
				answers++
			}
		}
		if s.Over() {
			if diff := cmp.Diff([]Command{{Op: OpGameOver}}, cmds); diff != "" {
				t.Errorf("unexpected final commands (-want +got)\n%s", diff)
			}
		}
	}

	if questions != Categories*CluesPerCategory || answers != Categories*CluesPerCategory {
		t.Errorf("got %d questions and %d answers, want %d each", questions, answers, Categories*CluesPerCategory)
	}
	if want := 2*Categories*CluesPerCategory + 1; clicks != want {
		t.Errorf("game over after %d clicks, want %d", clicks, want)
	}
	if s.Category != Categories {
		t.Errorf("final category = %d, want %d", s.Category, Categories)
	}

	// Further clicks are no-ops.
	for i := 0; i < 3; i++ {
		next, cmds := Next(b, s, rng)
		if len(cmds) != 0 {
			t.Errorf("click after game over produced commands: %v", cmds)
		}
		if diff := cmp.Diff(s, next); diff != "" {
			t.Errorf("click after game over changed state (-want +got)\n%s", diff)
		}
	}
}

func TestNoImmediateRepeat(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		b := testBoard(t, 2)
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b9))
		s, _ := Start(b)
		for !s.Over() {
			prev := s
			s, _ = Next(b, s, rng)
			if s.Awaiting && !prev.Awaiting && s.Category == prev.Category && prev.LastClue != NoClue {
				if s.LastClue == prev.LastClue {
					t.Fatalf("seed %d: clue %d repeated in category %d", seed, s.LastClue, s.Category)
				}
			}
		}
	}
}

func TestRejectionSampling(t *testing.T) {
	b := testBoard(t, 3)
	// First draw 2, then the next reveal draws 2, 2, 0: the repeats are rejected.
	rng := &seqRand{vals: []int{2, 2, 2, 0}}
	s, _ := Start(b)
	s, _ = Next(b, s, rng) // question
	s, _ = Next(b, s, rng) // answer
	s, _ = Next(b, s, rng) // question
	if s.LastClue != 0 {
		t.Errorf("LastClue = %d, want 0", s.LastClue)
	}
	if rng.i != 4 {
		t.Errorf("made %d draws, want 4", rng.i)
	}
}

func TestAnswerRevealIncrementsShown(t *testing.T) {
	b := testBoard(t, 2)
	rng := rand.New(rand.NewPCG(7, 7))
	s, _ := Start(b)
	for !s.Over() {
		prev := s
		s, _ = Next(b, s, rng)
		if prev.Awaiting && prev.Shown < CluesPerCategory {
			if s.Awaiting {
				t.Fatal("still awaiting after answer reveal")
			}
			if s.Shown != prev.Shown+1 {
				t.Fatalf("Shown = %d after answer, want %d", s.Shown, prev.Shown+1)
			}
		}
	}
}

func TestCategoryAdvanceResets(t *testing.T) {
	b := testBoard(t, 2)
	s := State{Category: 2, Shown: CluesPerCategory, LastClue: 1}
	next, cmds := Next(b, s, &seqRand{vals: []int{1}})

	if next.Category != 3 || next.Shown != 0 {
		t.Errorf("got category %d shown %d, want 3 and 0", next.Category, next.Shown)
	}
	// LastClue was reset, so drawing 1 again is allowed.
	if next.LastClue != 1 {
		t.Errorf("LastClue = %d, want 1", next.LastClue)
	}
	if len(cmds) == 0 || cmds[0] != (Command{Op: OpTitle, Text: "cat3"}) {
		t.Errorf("advance did not lead with the new title: %v", cmds)
	}
}

func TestSingleClueCategoryRepeats(t *testing.T) {
	b := testBoard(t, 1)
	rng := &seqRand{vals: []int{0}}
	s, _ := Start(b)
	for i := 0; i < 4; i++ {
		s, _ = Next(b, s, rng)
	}
	if s.Shown != 2 || s.LastClue != 0 {
		t.Errorf("got %+v, want both reveals of clue 0", s)
	}
}
