package uci

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

type memoryPrefs struct {
	prefs *storage.UserPreferences
	saves int
}

func (m *memoryPrefs) LoadPreferences() (*storage.UserPreferences, error) {
	if m.prefs == nil {
		return storage.DefaultPreferences(), nil
	}
	p := *m.prefs
	return &p, nil
}

func (m *memoryPrefs) SavePreferences(p *storage.UserPreferences) error {
	m.prefs = p
	m.saves++
	return nil
}

func newTestUCI() (*UCI, *bytes.Buffer) {
	var out bytes.Buffer
	eng := engine.NewEngine(1)
	eng.SetSeed(7)
	return New(eng, 1, &out), &out
}

// waitSearch lets a running search finish on its own.
func waitSearch(t *testing.T, u *UCI) {
	t.Helper()
	require.NotNil(t, u.searchDone)
	select {
	case <-u.searchDone:
		u.searchDone = nil
	case <-time.After(30 * time.Second):
		t.Fatal("search did not finish")
	}
}

func TestHandshake(t *testing.T) {
	u, out := newTestUCI()

	err := u.Run(context.Background(), strings.NewReader("uci\nisready\nquit\n"))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "id name ChessCore")
	assert.Contains(t, text, "option name Hash")
	assert.Contains(t, text, "uciok")
	assert.Contains(t, text, "readyok")
}

func TestRunStopsAtEOF(t *testing.T) {
	u, out := newTestUCI()
	require.NoError(t, u.Run(context.Background(), strings.NewReader("isready\n")))
	assert.Equal(t, "readyok\n", out.String())
}

func TestPosition(t *testing.T) {
	ctx := context.Background()
	u, _ := newTestUCI()

	u.HandleLine(ctx, "position startpos moves e2e4 e7e5")
	assert.Equal(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w - - 0 1", u.Board().ToFEN())
	assert.Len(t, u.Board().History, 2)

	u.HandleLine(ctx, "position fen 4k3/8/8/8/8/8/8/4K2R b - - 0 1 moves e8d8")
	assert.Equal(t, "3k4/8/8/8/8/8/8/4K2R w - - 0 1", u.Board().ToFEN())
}

func TestPositionRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	u, out := newTestUCI()
	before := u.Board().ToFEN()

	u.HandleLine(ctx, "position fen not-a-fen w")
	u.HandleLine(ctx, "position startpos moves e2e5")

	assert.Equal(t, before, u.Board().ToFEN())
	assert.Contains(t, out.String(), "info string invalid FEN")
	assert.Contains(t, out.String(), "info string invalid move e2e5")
}

func TestGoFindsMate(t *testing.T) {
	ctx := context.Background()
	u, out := newTestUCI()

	u.HandleLine(ctx, "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	u.HandleLine(ctx, "go depth 2")
	waitSearch(t, u)

	text := out.String()
	assert.Contains(t, text, "info depth 1")
	assert.Contains(t, text, "score mate 1")
	assert.Contains(t, text, "pv a1a8")
	assert.True(t, strings.HasSuffix(text, "bestmove a1a8\n"), text)
}

func TestGoTerminalPosition(t *testing.T) {
	ctx := context.Background()
	u, out := newTestUCI()

	u.HandleLine(ctx, "position fen 7k/8/8/8/8/1q6/8/K7 w - - 0 1")
	u.HandleLine(ctx, "go depth 3")
	waitSearch(t, u)

	assert.Equal(t, "bestmove 0000\n", out.String())
}

func TestStopDeliversBestMove(t *testing.T) {
	ctx := context.Background()
	u, out := newTestUCI()

	u.HandleLine(ctx, "position startpos")
	u.HandleLine(ctx, "go infinite")
	time.Sleep(50 * time.Millisecond)
	u.HandleLine(ctx, "stop")

	assert.Nil(t, u.searchDone)
	assert.Contains(t, out.String(), "bestmove ")
	assert.NotContains(t, out.String(), "bestmove 0000")
}

func TestSetOption(t *testing.T) {
	ctx := context.Background()
	u, out := newTestUCI()
	prefs := &memoryPrefs{}
	u.SetPreferenceStore(prefs)

	u.HandleLine(ctx, "setoption name Difficulty value hard")
	assert.Equal(t, engine.Hard, u.engine.Difficulty())
	require.NotNil(t, prefs.prefs)
	assert.Equal(t, engine.Hard, prefs.prefs.Difficulty)

	old := u.engine
	u.HandleLine(ctx, "setoption name Hash value 2")
	assert.NotSame(t, old, u.engine)
	assert.Same(t, u.engine, u.thinker.Engine())
	assert.Equal(t, 2, u.hashMB)
	assert.Equal(t, engine.Hard, u.engine.Difficulty())
	assert.Equal(t, 2, prefs.prefs.HashMB)
	assert.Equal(t, 2, prefs.saves)

	u.HandleLine(ctx, "setoption name Hash value zero")
	u.HandleLine(ctx, "setoption name Difficulty value impossible")
	assert.Equal(t, 2, u.hashMB)
	assert.Equal(t, engine.Hard, u.engine.Difficulty())
	assert.Contains(t, out.String(), `invalid hash size "zero"`)
}

func TestPerft(t *testing.T) {
	u, out := newTestUCI()
	u.HandleLine(context.Background(), "perft 2")

	text := out.String()
	assert.Contains(t, text, "e2e4: 20\n")
	assert.Contains(t, text, "Nodes searched: 400\n")
}

func TestDebugBoard(t *testing.T) {
	u, out := newTestUCI()
	u.HandleLine(context.Background(), "d")
	assert.Contains(t, out.String(), "tt: ")
}

func TestParseGoOptions(t *testing.T) {
	opts := parseGoOptions(strings.Fields("wtime 60000 btime 30000 winc 1000 binc 500 movestogo 20 depth 5"))
	assert.Equal(t, GoOptions{
		Depth:     5,
		WTime:     time.Minute,
		BTime:     30 * time.Second,
		WInc:      time.Second,
		BInc:      500 * time.Millisecond,
		MovesToGo: 20,
	}, opts)

	assert.True(t, parseGoOptions(nil).isZero())
	assert.True(t, parseGoOptions([]string{"infinite"}).Infinite)
}

func TestCalculateLimits(t *testing.T) {
	u, _ := newTestUCI()
	u.engine.SetDifficulty(engine.Easy)

	assert.Equal(t, engine.DifficultySettings[engine.Easy], u.calculateLimits(GoOptions{}))
	assert.Equal(t, engine.SearchLimits{Depth: 4}, u.calculateLimits(GoOptions{Depth: 4}))
	assert.Equal(t, engine.SearchLimits{MoveTime: time.Second}, u.calculateLimits(GoOptions{MoveTime: time.Second}))

	// 60s spread over 50 moves plus 90% of the increment, less the opening buffer.
	limits := u.calculateLimits(GoOptions{WTime: time.Minute, BTime: time.Second, WInc: time.Second})
	assert.Equal(t, 1785*time.Millisecond, limits.MoveTime)

	u.HandleLine(context.Background(), "position startpos moves e2e4")
	limits = u.calculateLimits(GoOptions{WTime: time.Second, BTime: time.Minute, BInc: time.Second})
	assert.Equal(t, 1785*time.Millisecond, limits.MoveTime)
}
