// internal/game/game.go
//
// Game session wrapper.
//   - Game: one board plus its traversal state, identified by a UUID.
//   - Click serialises transitions behind a mutex; State returns a snapshot.

package game

import (
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// Game is one player's session: a board plus its traversal state.
// Clicks are serialised so a session only ever sees one transition at a time.
type Game struct {
	ID    string
	board *Board
	rng   Rand

	mu    sync.Mutex
	state State
}

// New starts a game on b. A nil rng uses the process-wide math/rand/v2 source.
// It returns the game and the commands presenting its first category.
func New(b *Board, rng Rand) (*Game, []Command) {
	if rng == nil {
		rng = globalRand{}
	}
	s, cmds := Start(b)
	return &Game{
		ID:    uuid.NewString(),
		board: b,
		rng:   rng,
		state: s,
	}, cmds
}

// Click applies one card click and returns the commands it produced.
func (g *Game) Click() []Command {
	g.mu.Lock()
	defer g.mu.Unlock()
	next, cmds := Next(g.board, g.state, g.rng)
	g.state = next
	return cmds
}

// State returns a snapshot of the traversal state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Board returns the game's board.
func (g *Game) Board() *Board { return g.board }

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }
