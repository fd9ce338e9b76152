// Package server exposes the engine over HTTP and WebSocket.
//
// Routes:
//
//	GET  /api/health  liveness and transposition table statistics
//	POST /api/status  legal moves and check/mate/stalemate for a position
//	POST /api/think   search a position and return the engine move
//	GET  /api/stats   recorded game statistics
//	GET  /ws          search requests with per-depth progress streamed back
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

var ErrNoStore = errors.New("no game store configured")

// GameStore records finished games. *storage.Storage satisfies it.
type GameStore interface {
	RecordGame(storage.GameResult) error
	LoadStats() (*storage.GameStats, error)
}

// Server serves engine requests. All engines it creates share one
// transposition table.
type Server struct {
	router   *mux.Router
	tt       *engine.TranspositionTable
	store    GameStore
	upgrader websocket.Upgrader
	started  time.Time
	seed     *uint64
}

// New creates a server with a transposition table of hashMB megabytes.
// store may be nil, in which case finished games are not recorded.
func New(hashMB int, store GameStore) *Server {
	s := &Server{
		tt:      engine.NewTranspositionTable(hashMB),
		store:   store,
		started: time.Now(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodPost)
	r.HandleFunc("/api/think", s.handleThink).Methods(http.MethodPost)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	s.router = r

	return s
}

// SetSeed makes blunder choices of every engine created afterwards
// reproducible.
func (s *Server) SetSeed(seed uint64) {
	s.seed = &seed
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("serving")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) newEngine() *engine.Engine {
	e := engine.NewEngineWithTable(s.tt)
	if s.seed != nil {
		e.SetSeed(*s.seed)
	}
	return e
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Table  string `json:"table"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: humanize.RelTime(s.started, time.Now(), "", ""),
		Table:  s.tt.Stats(),
	})
}

// StatusRequest asks for the state of a position.
type StatusRequest struct {
	FEN   string   `json:"fen"`
	Moves []string `json:"moves,omitempty"`
}

// MoveInfo describes one legal move.
type MoveInfo struct {
	UCI string `json:"uci"`
	SAN string `json:"san"`
}

// StatusResponse lists the legal moves of the side to move.
type StatusResponse struct {
	FEN        string     `json:"fen"`
	ToMove     string     `json:"to_move"`
	Status     string     `json:"status"`
	Repetition bool       `json:"repetition"`
	Moves      []MoveInfo `json:"moves"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	b, err := buildBoard(req.FEN, req.Moves)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, describe(b))
}

func describe(b *board.Board) StatusResponse {
	legal := b.LegalMoves(b.ToMove)
	moves := make([]MoveInfo, len(legal))
	for i, m := range legal {
		moves[i] = MoveInfo{UCI: m.String(), SAN: b.SAN(m)}
	}
	return StatusResponse{
		FEN:        b.ToFEN(),
		ToMove:     b.ToMove.String(),
		Status:     b.Status(b.ToMove).String(),
		Repetition: b.IsRepetition(),
		Moves:      moves,
	}
}

// ThinkRequest asks the engine for a move. Without explicit limits the
// difficulty decides depth, time and blunder rate.
type ThinkRequest struct {
	FEN        string   `json:"fen"`
	Moves      []string `json:"moves,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Depth      int      `json:"depth,omitempty"`
	MoveTimeMs int      `json:"movetime_ms,omitempty"`
}

func (req ThinkRequest) limits() (engine.Difficulty, engine.SearchLimits, error) {
	d := engine.Medium
	if req.Difficulty != "" {
		var err error
		if d, err = engine.ParseDifficulty(req.Difficulty); err != nil {
			return d, engine.SearchLimits{}, err
		}
	}
	if req.Depth > 0 || req.MoveTimeMs > 0 {
		return d, engine.SearchLimits{
			Depth:    req.Depth,
			MoveTime: time.Duration(req.MoveTimeMs) * time.Millisecond,
		}, nil
	}
	return d, engine.DifficultySettings[d], nil
}

// ThinkResponse is the engine's answer.
type ThinkResponse struct {
	Move      string `json:"move"`
	SAN       string `json:"san,omitempty"`
	Score     int    `json:"score"`
	ScoreText string `json:"score_text"`
	Depth     int    `json:"depth"`
	Nodes     uint64 `json:"nodes"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Blunder   bool   `json:"blunder,omitempty"`
	// FEN and Status describe the position after the engine move, or the
	// unchanged position when there was no move to make.
	FEN    string `json:"fen"`
	Status string `json:"status"`
}

func (s *Server) handleThink(w http.ResponseWriter, r *http.Request) {
	var req ThinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	b, err := buildBoard(req.FEN, req.Moves)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	d, limits, err := req.limits()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	eng := s.newEngine()
	eng.SetDifficulty(d)
	res := eng.SearchWithLimits(r.Context(), b, limits)

	writeJSON(w, http.StatusOK, s.finish(b, d, res))
}

// finish plays the engine move on b, records the game if it is over and
// builds the response.
func (s *Server) finish(b *board.Board, d engine.Difficulty, res engine.Result) ThinkResponse {
	resp := ThinkResponse{
		Move:      res.Move.String(),
		Score:     res.Score,
		ScoreText: engine.ScoreToString(res.Score, res.Depth),
		Depth:     res.Depth,
		Nodes:     res.Nodes,
		ElapsedMs: res.Elapsed.Milliseconds(),
		Blunder:   res.Blunder,
	}

	// The engine is the side to move; the human plays the other side.
	var outcome storage.Outcome
	status := res.Status
	if res.Move.IsNull() {
		outcome = storage.Win
	} else {
		resp.SAN = b.SAN(res.Move)
		b.Apply(res.Move)
		status = b.Status(b.ToMove)
		outcome = storage.Loss
	}
	if status == board.Stalemate {
		outcome = storage.Draw
	}
	resp.FEN = b.ToFEN()
	resp.Status = status.String()

	if status.IsTerminal() {
		s.record(storage.GameResult{
			Outcome:    outcome,
			Reason:     status.String(),
			Difficulty: d,
			Plies:      len(b.History),
		})
	}
	return resp
}

func (s *Server) record(result storage.GameResult) {
	if s.store == nil {
		return
	}
	if err := s.store.RecordGame(result); err != nil {
		log.Error().Err(err).Msg("record-game")
		return
	}
	log.Info().Str("outcome", result.Outcome.String()).Str("reason", result.Reason).Msg("game-recorded")
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, ErrNoStore)
		return
	}
	stats, err := s.store.LoadStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// buildBoard sets up fen (the start position when empty) and plays moves
// on it so that the history covers every earlier position.
func buildBoard(fen string, moves []string) (*board.Board, error) {
	b := board.NewStartBoard()
	if fen != "" {
		var err error
		if b, err = board.ParseFEN(fen); err != nil {
			return nil, err
		}
	}
	for _, s := range moves {
		m, err := b.ParseMove(s)
		if err != nil {
			return nil, err
		}
		b.Apply(m)
	}
	return b, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write-response")
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	log.Warn().Err(err).Int("code", code).Msg("request-failed")
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
