// internal/game/engine.go
//
// Board traversal engine.
// Responsibilities:
//   - Validate a set of categories into a Board.
//   - Produce the starting State for a board.
//   - Advance the State on each card click, emitting presentation commands.
//
// Transition on a click (Next):
//   1. Game over            → no-op, no commands.
//   2. Category exhausted   → advance to the next category, show its title,
//                             then reveal a question in the same click
//                             (or signal game over past the last category).
//   3. No question showing  → draw a clue (no immediate repeat), show question.
//   4. Question showing     → show its answer, count the clue as shown.

package game

import "fmt"

// NewBoard validates categories and builds a Board.
// A board needs exactly Categories categories, each with at least one clue.
func NewBoard(cats []Category) (*Board, error) {
	if len(cats) != Categories {
		return nil, fmt.Errorf("%w: want %d categories, got %d", ErrInvalidBoard, Categories, len(cats))
	}
	out := make([]Category, len(cats))
	for i, c := range cats {
		if len(c.Clues) == 0 {
			return nil, fmt.Errorf("%w: category %q has no clues", ErrInvalidBoard, c.Title)
		}
		out[i] = Category{Title: c.Title, Clues: append([]Clue(nil), c.Clues...)}
	}
	return &Board{categories: out}, nil
}

// Category returns the i-th category and whether i is in range.
func (b *Board) Category(i int) (Category, bool) {
	if b == nil || i < 0 || i >= len(b.categories) {
		return Category{}, false
	}
	return b.categories[i], true
}

// Titles lists the category titles in board order.
func (b *Board) Titles() []string {
	out := make([]string, len(b.categories))
	for i, c := range b.categories {
		out[i] = c.Title
	}
	return out
}

// Start returns the initial State for b and the commands that present it:
// the first category title, with the question and answer fields cleared.
func Start(b *Board) (State, []Command) {
	s := State{LastClue: NoClue}
	return s, append(titleCommands(b, s),
		Command{Op: OpQuestion},
		Command{Op: OpAnswer},
	)
}

// Next applies one card click to s and returns the new State plus the
// commands to present it. s itself is never modified.
func Next(b *Board, s State, rng Rand) (State, []Command) {
	if s.Over() {
		return s, nil
	}

	var cmds []Command
	if s.Shown >= CluesPerCategory {
		// advance-then-reveal: the category switch and the next question
		// happen on the same click.
		s.Category++
		s.Shown = 0
		s.LastClue = NoClue
		if s.Over() {
			return s, []Command{{Op: OpGameOver}}
		}
		cmds = append(cmds, titleCommands(b, s)...)
	}

	if !s.Awaiting {
		next, reveal := revealQuestion(b, s, rng)
		return next, append(cmds, reveal...)
	}

	cmds = append(cmds, Command{Op: OpAnswer, Text: s.Pending})
	s.Awaiting = false
	s.Pending = ""
	s.Shown++
	return s, cmds
}

// revealQuestion draws a clue from the current category and shows its question.
func revealQuestion(b *Board, s State, rng Rand) (State, []Command) {
	cat, ok := b.Category(s.Category)
	if !ok {
		return s, nil
	}
	idx := drawClue(len(cat.Clues), s.LastClue, rng)
	clue := cat.Clues[idx]

	s.LastClue = idx
	s.Pending = answerPrefix + clue.Answer
	s.Awaiting = true
	return s, []Command{
		{Op: OpAnswer, Text: ""},
		{Op: OpQuestion, Text: clue.Question},
	}
}

// drawClue picks an index in [0,n) uniformly, re-drawing while it equals last.
// With a single clue the only index is returned even if it repeats.
func drawClue(n, last int, rng Rand) int {
	idx := rng.IntN(n)
	if n <= 1 {
		return idx
	}
	for idx == last {
		idx = rng.IntN(n)
	}
	return idx
}

// titleCommands shows the title of the current category; nothing when out of range.
func titleCommands(b *Board, s State) []Command {
	cat, ok := b.Category(s.Category)
	if !ok {
		return nil
	}
	return []Command{{Op: OpTitle, Text: cat.Title}}
}
