// internal/httpserver/server.go
//
// HTTP server wiring for the Jeopardy board.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Page + diagnostics: "/", "/health".
//   - Game endpoints: POST /game/new, POST /game/click, POST /game/restart, GET /game/state.
//   - Websocket channel: GET /game/ws (see ws.go).
//
// Every game endpoint answers with the presentation commands the page must
// apply, in order. The session cookie binds a browser to its current game.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/assets"
	"github.com/robalobadob/jeopardy/internal/game"
	"github.com/robalobadob/jeopardy/internal/lifecycle"
	"github.com/robalobadob/jeopardy/internal/store"
)

// Options configures a Server.
type Options struct {
	ClientOrigin   string
	SessionSecret  string
	SessionTTL     time.Duration
	Secure         bool          // Secure cookies (production)
	RequestTimeout time.Duration // bounds plain HTTP handlers, board loads included
}

// Server bundles router, session store and lifecycle controller.
type Server struct {
	r        *chi.Mux
	store    store.Store
	ctl      *lifecycle.Controller
	sessions *sessions
	opts     Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, ctl *lifecycle.Controller, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		ctl:   ctl,
		sessions: &sessions{
			secret: []byte(opts.SessionSecret),
			ttl:    opts.SessionTTL,
			secure: opts.Secure,
			now:    time.Now,
		},
		opts: opts,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// Websocket stays outside the timeout group: it outlives any single request.
	s.r.Get("/game/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(opts.RequestTimeout))

		r.Get("/", s.handleIndex)

		r.Group(func(r chi.Router) {
			r.Use(jsonContentType)
			r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"ok":true}`))
			})
			r.Post("/game/new", s.handleNewGame)
			r.Post("/game/click", s.handleClick)
			r.Post("/game/restart", s.handleRestart)
			r.Get("/game/state", s.handleState)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin != "" {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reqId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ PAGE ---------------------------------------

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := assets.IndexHTML()
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// ------------------------------ GAME ---------------------------------------

// commandsRes is the payload of every game endpoint.
type commandsRes struct {
	GameID   string         `json:"gameId,omitempty"`
	Commands []game.Command `json:"commands"`
	State    *game.State    `json:"state,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// handleNewGame is the first load: it replaces any game bound to the session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.dropCurrent(r)
	g, cmds, err := s.ctl.Start(r.Context())
	s.finishLoad(w, r, g, cmds, err)
}

// restartReq is the payload for POST /game/restart.
type restartReq struct {
	Confirm bool `json:"confirm"` // true when sent from the game-over modal
}

// handleRestart discards the current game and builds a new one.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req restartReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	s.dropCurrent(r)
	var (
		g    *game.Game
		cmds []game.Command
		err  error
	)
	if req.Confirm {
		g, cmds, err = s.ctl.ConfirmRestart(r.Context())
	} else {
		g, cmds, err = s.ctl.Restart(r.Context())
	}
	s.finishLoad(w, r, g, cmds, err)
}

// finishLoad stores a freshly loaded game and binds the session to it.
// A failed load still returns the commands (spinner off, error shown).
func (s *Server) finishLoad(w http.ResponseWriter, r *http.Request, g *game.Game, cmds []game.Command, err error) {
	if err != nil {
		s.sessions.clear(w)
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(commandsRes{Commands: cmds, Error: "board_unavailable"})
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if err := s.sessions.set(w, g.ID); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign session")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	st := g.State()
	_ = json.NewEncoder(w).Encode(commandsRes{GameID: g.ID, Commands: cmds, State: &st})
}

// handleClick applies one card click to the session's game.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	g, ok := s.currentGame(w, r)
	if !ok {
		return
	}
	cmds := s.ctl.Click(g)
	if cmds == nil {
		cmds = []game.Command{}
	}
	st := g.State()
	_ = json.NewEncoder(w).Encode(commandsRes{GameID: g.ID, Commands: cmds, State: &st})
}

// stateRes is returned by GET /game/state.
type stateRes struct {
	GameID     string     `json:"gameId"`
	State      game.State `json:"state"`
	Categories []string   `json:"categories"`
}

// handleState reports the traversal state of the session's game.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	g, ok := s.currentGame(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(stateRes{GameID: g.ID, State: g.State(), Categories: g.Board().Titles()})
}

// currentGame resolves the session's game or writes an error response.
func (s *Server) currentGame(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	id, err := s.sessions.fromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no_session")
		return nil, false
	}
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "game_not_found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "store_error")
		return nil, false
	}
	return g, true
}

// dropCurrent deletes the game bound to the session, if any.
func (s *Server) dropCurrent(r *http.Request) {
	id, err := s.sessions.fromRequest(r)
	if err != nil {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", id).Msg("drop game")
	}
}

// writeError writes a JSON error body with status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
