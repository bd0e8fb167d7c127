// internal/game/types.go
//
// Core type definitions for the Jeopardy board engine.
// Defines:
//   - Clue / Category / Board: the fixed content of one game.
//   - State: the traversal position over a board (an immutable value).
//   - Command: a presentation instruction emitted by a transition.

package game

import "errors"

const (
	// Categories is the number of categories on every board.
	Categories = 6
	// CluesPerCategory is how many clues are revealed before moving on.
	CluesPerCategory = 2
	// NoClue marks "no clue drawn yet in this category".
	NoClue = -1

	answerPrefix = "Answer: "
)

// ErrInvalidBoard is returned by NewBoard when the categories cannot form a board.
var ErrInvalidBoard = errors.New("invalid board")

// Clue is a single question/answer pair.
// Answer may carry simple inline markup (see package markup).
type Clue struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Category is a titled group of clues.
type Category struct {
	Title string `json:"title"`
	Clues []Clue `json:"clues"`
}

// Board is the fixed set of categories for one game session.
type Board struct {
	categories []Category
}

// State is the traversal position over a Board.
// Transitions never mutate a State; they return a new one.
type State struct {
	Category int    `json:"category"` // index into the board; Categories means game over
	Shown    int    `json:"shown"`    // answers revealed in the current category
	LastClue int    `json:"lastClue"` // last drawn clue index, or NoClue
	Awaiting bool   `json:"awaiting"` // a question is showing and its answer is not
	Pending  string `json:"-"`        // answer text to show on the next click
}

// Over reports whether every category has been exhausted.
func (s State) Over() bool { return s.Category >= Categories }

// Op names a presentation instruction.
type Op string

const (
	OpTitle       Op = "title"
	OpQuestion    Op = "question"
	OpAnswer      Op = "answer" // Text is HTML
	OpCardShow    Op = "card.show"
	OpCardHide    Op = "card.hide"
	OpSpinnerShow Op = "spinner.show"
	OpSpinnerHide Op = "spinner.hide"
	OpModalShow   Op = "modal.show"
	OpModalHide   Op = "modal.hide"
	OpStartShow   Op = "start.show"
	OpStartHide   Op = "start.hide"
	OpStartLabel  Op = "start.label"
	OpGameOver    Op = "gameover"
	OpError       Op = "error"
)

// Command is a fire-and-forget instruction for the presentation layer.
type Command struct {
	Op   Op     `json:"op"`
	Text string `json:"text,omitempty"`
}

// Rand is the random source used for clue draws.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}
