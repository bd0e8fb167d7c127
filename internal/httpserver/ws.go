// internal/httpserver/ws.go
//
// Websocket command channel: GET /game/ws.
//   - The page sends {"type": "start" | "click" | "restart" | "confirm"}.
//   - Each message is answered with one batch of presentation commands.
//   - The game is bound to the connection, not to the session cookie.
//   - A ticker pings the client; reads expire without a pong.

package httpserver

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/jeopardy/internal/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// wsMessage is sent by the page: "start", "click", "restart" or "confirm".
type wsMessage struct {
	Type string `json:"type"`
}

// wsReply carries one batch of presentation commands.
type wsReply struct {
	Commands []game.Command `json:"commands"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || origin == s.opts.ClientOrigin {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

// handleWS drives one page over a websocket. The game lives as long as the
// connection; messages are handled one at a time, in order.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		hlog.FromRequest(r).Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()
	logger := hlog.FromRequest(r)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go pinger(ctx, conn)

	var g *game.Game
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var cmds []game.Command
		switch msg.Type {
		case "click":
			cmds = s.ctl.Click(g)
		case "start", "restart", "confirm":
			g, cmds = s.wsLoad(ctx, msg.Type)
		default:
			cmds = []game.Command{{Op: game.OpError, Text: "unknown message " + msg.Type}}
		}
		if len(cmds) == 0 {
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(wsReply{Commands: cmds}); err != nil {
			logger.Warn().Err(err).Msg("websocket write")
			return
		}
	}
}

// wsLoad runs a load flow bounded by the request timeout.
// The previous game is always discarded, even when the load fails.
func (s *Server) wsLoad(ctx context.Context, kind string) (*game.Game, []game.Command) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	var (
		g    *game.Game
		cmds []game.Command
	)
	switch kind {
	case "start":
		g, cmds, _ = s.ctl.Start(ctx)
	case "restart":
		g, cmds, _ = s.ctl.Restart(ctx)
	default:
		g, cmds, _ = s.ctl.ConfirmRestart(ctx)
	}
	return g, cmds
}

// pinger keeps the connection alive until ctx is done.
func pinger(ctx context.Context, conn *websocket.Conn) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
