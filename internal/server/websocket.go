package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// Message types on the /ws connection.
const (
	TypeThink    = "think"
	TypeStop     = "stop"
	TypeInfo     = "info"
	TypeBestMove = "bestmove"
	TypeError    = "error"
)

// ClientMessage is sent by the client. A "think" message carries the
// request; "stop" ends the running search early.
type ClientMessage struct {
	Type string `json:"type"`
	ThinkRequest
}

// InfoMessage reports one completed search depth.
type InfoMessage struct {
	Depth     int    `json:"depth"`
	Score     int    `json:"score"`
	ScoreText string `json:"score_text"`
	Nodes     uint64 `json:"nodes"`
	TimeMs    int64  `json:"time_ms"`
	Move      string `json:"move"`
	HashFull  int    `json:"hashfull"`
}

// ServerMessage is sent to the client.
type ServerMessage struct {
	Type   string         `json:"type"`
	Info   *InfoMessage   `json:"info,omitempty"`
	Result *ThinkResponse `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// wsConn serializes writes; gorilla connections allow one writer at a time.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(msg ServerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Debug().Err(err).Str("type", msg.Type).Msg("ws-write")
	}
}

func (c *wsConn) sendError(err error) {
	c.send(ServerMessage{Type: TypeError, Error: err.Error()})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws-upgrade")
		return
	}
	defer conn.Close()
	log.Debug().Str("remote", r.RemoteAddr).Msg("ws-connected")

	c := &wsConn{conn: conn}
	eng := s.newEngine()
	eng.OnInfo = func(info engine.SearchInfo) {
		c.send(ServerMessage{Type: TypeInfo, Info: &InfoMessage{
			Depth:     info.Depth,
			Score:     info.Score,
			ScoreText: engine.ScoreToString(info.Score, info.Depth),
			Nodes:     info.Nodes,
			TimeMs:    info.Time.Milliseconds(),
			Move:      info.Move.String(),
			HashFull:  info.HashFull,
		}})
	}
	thinker := engine.NewThinker(eng)

	ctx, cancel := context.WithCancel(r.Context())
	var searches sync.WaitGroup
	defer func() {
		cancel()
		searches.Wait()
	}()

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("ws-read")
			}
			return
		}

		switch msg.Type {
		case TypeThink:
			if thinker.Thinking() {
				c.sendError(engine.ErrThinking)
				continue
			}
			b, err := buildBoard(msg.FEN, msg.Moves)
			if err != nil {
				c.sendError(err)
				continue
			}
			d, limits, err := msg.limits()
			if err != nil {
				c.sendError(err)
				continue
			}
			eng.SetDifficulty(d)
			if err := thinker.StartWithLimits(ctx, b, limits); err != nil {
				c.sendError(err)
				continue
			}

			searches.Add(1)
			go func(b *board.Board, d engine.Difficulty) {
				defer searches.Done()
				res, err := thinker.Wait()
				if err != nil {
					c.sendError(err)
					return
				}
				result := s.finish(b, d, res)
				c.send(ServerMessage{Type: TypeBestMove, Result: &result})
			}(b, d)

		case TypeStop:
			thinker.Cancel()

		default:
			c.sendError(errors.New("unknown message type " + msg.Type))
		}
	}
}
