// Command jeopardy-term plays a Jeopardy board in the terminal.
//
// Enter reveals the next question or answer, r starts a new board and q quits.
// Every flag can also be set from the environment (e.g. TRIVIA_OFFLINE=true).
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/namsral/flag"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/assets"
	"github.com/robalobadob/jeopardy/internal/board"
	"github.com/robalobadob/jeopardy/internal/cache"
	"github.com/robalobadob/jeopardy/internal/game"
	"github.com/robalobadob/jeopardy/internal/lifecycle"
	"github.com/robalobadob/jeopardy/internal/trivia"
)

func main() {
	var (
		baseURL     = flag.String("trivia_base_url", "http://jservice.io", "Base URL of the trivia API")
		offline     = flag.Bool("trivia_offline", false, "Play from the embedded deck instead of the trivia API")
		timeout     = flag.Duration("trivia_timeout", 10*time.Second, "Timeout of a single trivia API request")
		maxAttempts = flag.Uint("acquire_max_attempts", board.DefaultPolicy.MaxAttempts, "Category batches to try before giving up")
		cacheDSN    = flag.String("cache_dsn", "", "Path to the SQLite category cache, empty to disable")
		logLevel    = flag.String("log_level", "warn", "Log level")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	err := run(options{
		baseURL:     *baseURL,
		offline:     *offline,
		timeout:     *timeout,
		maxAttempts: *maxAttempts,
		cacheDSN:    *cacheDSN,
	}, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	baseURL     string
	offline     bool
	timeout     time.Duration
	maxAttempts uint
	cacheDSN    string
}

// run sets up the source and plays until the player quits. Everything it
// opens is closed before it returns.
func run(opts options, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var src trivia.Source
	if opts.offline {
		data, err := assets.DeckJSON()
		if err != nil {
			return fmt.Errorf("read embedded deck: %w", err)
		}
		deck, err := trivia.ParseDeck(data)
		if err != nil {
			return fmt.Errorf("parse embedded deck: %w", err)
		}
		src = deck
	} else {
		client, err := trivia.NewClient(opts.baseURL, opts.timeout)
		if err != nil {
			return err
		}
		src = client
		if opts.cacheDSN != "" {
			db, err := cache.Open(opts.cacheDSN)
			if err != nil {
				return fmt.Errorf("open category cache: %w", err)
			}
			defer db.Close()
			src = cache.New(db, client, 0)
		}
	}

	ctl := lifecycle.New(board.NewLoader(src, board.Policy{MaxAttempts: opts.maxAttempts}))
	return play(ctx, ctl, bufio.NewScanner(in), out)
}

// play runs the input loop until q, end of input or ctx is done.
func play(ctx context.Context, ctl *lifecycle.Controller, in *bufio.Scanner, out io.Writer) error {
	g, cmds, _ := ctl.Start(ctx)
	render(out, cmds)

	over := false
	for in.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		switch strings.TrimSpace(strings.ToLower(in.Text())) {
		case "q":
			return nil
		case "r":
			if over {
				g, cmds, _ = ctl.ConfirmRestart(ctx)
			} else {
				g, cmds, _ = ctl.Restart(ctx)
			}
			over = false
		case "":
			cmds = ctl.Click(g)
			over = over || gameOver(cmds)
		default:
			cmds = []game.Command{{Op: game.OpError, Text: "press Enter, r or q"}}
		}
		render(out, cmds)
	}
	return in.Err()
}

func gameOver(cmds []game.Command) bool {
	for _, c := range cmds {
		if c.Op == game.OpGameOver {
			return true
		}
	}
	return false
}
