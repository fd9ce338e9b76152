package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chesscore/internal/board"
)

func isLegal(b *board.Board, m board.Move) bool {
	for _, l := range b.LegalMoves(b.ToMove) {
		if l == m {
			return true
		}
	}
	return false
}

func TestSearchBasic(t *testing.T) {
	b := board.NewStartBoard()
	eng := NewEngine(16)
	eng.SetSeed(1)

	res := eng.SearchWithLimits(context.Background(), b, SearchLimits{Depth: 3})
	require.False(t, res.Move.IsNull())
	assert.True(t, isLegal(b, res.Move), res.Move.String())
	assert.Equal(t, 3, res.Depth)
	assert.Equal(t, board.Ongoing, res.Status)
	assert.Greater(t, res.Nodes, uint64(0))
	t.Logf("Best move: %s (%s)", res.Move, ScoreToString(res.Score, res.Depth))
}

func TestSearchFindsMateInOne(t *testing.T) {
	b := mustFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	eng := NewEngine(16)

	var depths []int
	eng.OnInfo = func(info SearchInfo) { depths = append(depths, info.Depth) }

	res := eng.SearchWithLimits(context.Background(), b, SearchLimits{Depth: 5})
	assert.Equal(t, "a1a8", res.Move.String())
	assert.True(t, IsMateScore(res.Score))
	// Mate at the horizon is invisible at depth 1, found at depth 2, and
	// deepening stops there.
	assert.Equal(t, 2, res.Depth)
	assert.Equal(t, []int{1, 2}, depths)
	assert.Equal(t, 1, MatePlies(res.Score, res.Depth))
	assert.Equal(t, "Mate in 1", ScoreToString(res.Score, res.Depth))
}

func TestSearchWinsHangingQueen(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	eng := NewEngine(16)
	res := eng.SearchWithLimits(context.Background(), b, SearchLimits{Depth: 2})
	assert.Equal(t, "d2d5", res.Move.String())
}

func TestSearchRestoresBoard(t *testing.T) {
	b := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R b - - 0 1")
	fen, key := b.ToFEN(), b.Key
	NewEngine(16).SearchWithLimits(context.Background(), b, SearchLimits{Depth: 2})
	assert.Equal(t, fen, b.ToFEN())
	assert.Equal(t, key, b.Key)
	assert.Empty(t, b.History)
}

func TestSearchNoLegalMoves(t *testing.T) {
	eng := NewEngine(1)

	mated := eng.Search(context.Background(), mustFEN(t, "7k/8/8/8/8/2q5/7q/K6q w - - 0 1"))
	assert.True(t, mated.Move.IsNull())
	assert.Equal(t, board.Checkmate, mated.Status)

	stale := eng.Search(context.Background(), mustFEN(t, "7k/8/8/8/8/1q6/8/K7 w - - 0 1"))
	assert.True(t, stale.Move.IsNull())
	assert.Equal(t, board.Stalemate, stale.Status)
	assert.Equal(t, 0, stale.Score)
}

func TestSearchCancelledBeforeStart(t *testing.T) {
	b := board.NewStartBoard()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewEngine(1).SearchWithLimits(ctx, b, SearchLimits{Depth: 6})
	assert.Equal(t, 0, res.Depth)
	assert.False(t, res.Move.IsNull())
	assert.True(t, isLegal(b, res.Move))
}

func TestSearchTimeBudget(t *testing.T) {
	b := board.NewStartBoard()
	start := time.Now()
	res := NewEngine(16).SearchWithLimits(context.Background(), b, SearchLimits{Depth: MaxPly, MoveTime: 200 * time.Millisecond})
	assert.False(t, res.Move.IsNull())
	assert.GreaterOrEqual(t, res.Depth, 1)
	assert.Less(t, res.Depth, MaxPly)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestSearchDeterministicWithSeed(t *testing.T) {
	limits := SearchLimits{Depth: 2, BlunderPercent: 50}
	run := func() []string {
		eng := NewEngine(4)
		eng.SetSeed(42)
		b := board.NewStartBoard()
		var line []string
		for i := 0; i < 8; i++ {
			res := eng.SearchWithLimits(context.Background(), b, limits)
			if res.Move.IsNull() {
				break
			}
			line = append(line, res.Move.String())
			b.Apply(res.Move)
		}
		return line
	}
	first := run()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, run())
}

func TestBlunderPicksLegalMove(t *testing.T) {
	b := board.NewStartBoard()
	eng := NewEngine(1)
	eng.SetSeed(3)
	for i := 0; i < 10; i++ {
		res := eng.SearchWithLimits(context.Background(), b, SearchLimits{Depth: 1, BlunderPercent: 100})
		assert.True(t, res.Blunder)
		assert.True(t, isLegal(b, res.Move))
	}
	res := eng.SearchWithLimits(context.Background(), b, SearchLimits{Depth: 1})
	assert.False(t, res.Blunder)
}

func TestDifficulty(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		parsed, err := ParseDifficulty(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
		assert.Greater(t, DifficultySettings[d].Depth, 0)
	}
	_, err := ParseDifficulty("grandmaster")
	assert.Error(t, err)

	assert.Less(t, DifficultySettings[Easy].Depth, DifficultySettings[Hard].Depth)
	assert.Greater(t, DifficultySettings[Easy].BlunderPercent, 0)
	assert.Zero(t, DifficultySettings[Hard].BlunderPercent)

	eng := NewEngine(1)
	assert.Equal(t, Medium, eng.Difficulty())
	eng.SetDifficulty(Hard)
	assert.Equal(t, Hard, eng.Difficulty())
}

func TestScoreToString(t *testing.T) {
	assert.Equal(t, "1.25", ScoreToString(125, 3))
	assert.Equal(t, "-0.05", ScoreToString(-5, 3))
	assert.Equal(t, "Mate in 2", ScoreToString(MateScore+1, 4))
	assert.Equal(t, "Mated in 1", ScoreToString(-(MateScore + 2), 4))
	assert.Equal(t, 0, MatePlies(300, 4))
}
