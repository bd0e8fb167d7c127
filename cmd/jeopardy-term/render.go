package main

import (
	"fmt"
	"io"

	"github.com/robalobadob/jeopardy/internal/game"
	"github.com/robalobadob/jeopardy/internal/markup"
)

// render prints the commands that have a visible effect in a terminal.
// Card and button visibility have no terminal equivalent and are skipped.
func render(w io.Writer, cmds []game.Command) {
	for _, c := range cmds {
		switch c.Op {
		case game.OpSpinnerShow:
			fmt.Fprintln(w, "Loading board...")
		case game.OpTitle:
			fmt.Fprintf(w, "\n== %s ==\n", c.Text)
		case game.OpQuestion:
			if c.Text != "" {
				fmt.Fprintf(w, "Q: %s\n", c.Text)
			}
		case game.OpAnswer:
			if c.Text != "" {
				fmt.Fprintln(w, markup.Plain(c.Text))
			}
		case game.OpGameOver:
			fmt.Fprintln(w, "\nGame over!")
		case game.OpModalShow:
			fmt.Fprintln(w, "Press r to play again, q to quit.")
		case game.OpError:
			if c.Text != "" {
				fmt.Fprintf(w, "error: %s\n", c.Text)
			}
		}
	}
}
