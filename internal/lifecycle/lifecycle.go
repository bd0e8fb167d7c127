// internal/lifecycle/lifecycle.go
//
// Lifecycle controller: the flows around the traversal engine.
//   - Start:          first load of the page (spinner, start button relabel).
//   - Restart:        start button after the first load; board rebuilt from scratch.
//   - ConfirmRestart: the game-over modal's restart button.
//   - Click:          card click; on game over hides the board and shows the modal.
//
// Loading failures do not crash anything: the spinner is hidden, an error
// command is emitted for the page, and the error is returned to the caller.

package lifecycle

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/internal/game"
)

const (
	restartLabel = "Restart Game"
	loadFailed   = "Could not load a new board. Please try again."
)

// BoardLoader builds a fresh board; *board.Loader satisfies it.
type BoardLoader interface {
	Load(ctx context.Context) (*game.Board, error)
}

// Controller wires start/restart/click flows to the engine.
type Controller struct {
	loader  BoardLoader
	newRand func() game.Rand
}

// New returns a Controller that builds boards with loader.
func New(loader BoardLoader) *Controller {
	return &Controller{loader: loader, newRand: func() game.Rand { return nil }}
}

// WithRand sets the per-game random source factory (for tests).
func (c *Controller) WithRand(f func() game.Rand) *Controller {
	c.newRand = f
	return c
}

// Start performs the first load.
func (c *Controller) Start(ctx context.Context) (*game.Game, []game.Command, error) {
	cmds := []game.Command{
		{Op: game.OpSpinnerShow},
		{Op: game.OpStartLabel, Text: restartLabel},
	}
	return c.load(ctx, cmds)
}

// Restart discards any current game and builds a new one.
func (c *Controller) Restart(ctx context.Context) (*game.Game, []game.Command, error) {
	cmds := []game.Command{
		{Op: game.OpCardHide},
		{Op: game.OpSpinnerShow},
	}
	return c.load(ctx, cmds)
}

// ConfirmRestart handles the restart button inside the game-over modal.
func (c *Controller) ConfirmRestart(ctx context.Context) (*game.Game, []game.Command, error) {
	cmds := []game.Command{
		{Op: game.OpModalHide},
		{Op: game.OpStartShow},
	}
	g, rest, err := c.Restart(ctx)
	return g, append(cmds, rest...), err
}

// Click forwards a card click to g. A nil game (nothing loaded yet) is a no-op.
func (c *Controller) Click(g *game.Game) []game.Command {
	if g == nil {
		return nil
	}
	cmds := g.Click()
	for _, cmd := range cmds {
		if cmd.Op == game.OpGameOver {
			log.Info().Str("gameId", g.ID).Msg("game over")
			cmds = append(cmds,
				game.Command{Op: game.OpCardHide},
				game.Command{Op: game.OpStartHide},
				game.Command{Op: game.OpModalShow},
			)
			break
		}
	}
	return cmds
}

// load builds a board and a game on it, appending to cmds.
func (c *Controller) load(ctx context.Context, cmds []game.Command) (*game.Game, []game.Command, error) {
	b, err := c.loader.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load board")
		return nil, append(cmds,
			game.Command{Op: game.OpSpinnerHide},
			game.Command{Op: game.OpError, Text: loadFailed},
		), err
	}

	g, start := game.New(b, c.newRand())
	log.Info().Str("gameId", g.ID).Strs("categories", b.Titles()).Msg("new game")

	cmds = append(cmds, game.Command{Op: game.OpError})
	cmds = append(cmds, start...)
	cmds = append(cmds,
		game.Command{Op: game.OpSpinnerHide},
		game.Command{Op: game.OpCardShow},
	)
	return g, cmds, nil
}
