package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chesscore/internal/board"
)

func newTestSearcher() *Searcher {
	return NewSearcher(NewTranspositionTableEntries(1 << 16))
}

func TestNegamaxCheckmated(t *testing.T) {
	b := mustFEN(t, "7k/8/8/8/8/2q5/7q/K6q w - - 0 1")
	for depth := 1; depth <= 3; depth++ {
		score := newTestSearcher().Negamax(b, depth, -Infinity, Infinity, 1)
		assert.LessOrEqual(t, score, -MateScore, "depth %d", depth)
	}
}

func TestNegamaxStalemate(t *testing.T) {
	b := mustFEN(t, "7k/8/8/8/8/1q6/8/K7 w - - 0 1")
	assert.Equal(t, 0, newTestSearcher().Negamax(b, 2, -Infinity, Infinity, 1))
}

func TestNegamaxRepetitionPenalty(t *testing.T) {
	b := board.NewStartBoard()
	for _, s := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		m, err := b.ParseMove(s)
		require.NoError(t, err)
		b.Apply(m)
	}
	require.True(t, b.IsRepetition())
	assert.Equal(t, -RepetitionPenalty, newTestSearcher().Negamax(b, 3, -Infinity, Infinity, 1))
}

func TestNegamaxRestoresBoard(t *testing.T) {
	b := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1")
	fen, key := b.ToFEN(), b.Key
	s := newTestSearcher()
	s.Negamax(b, 3, -Infinity, Infinity, 1)
	assert.Equal(t, fen, b.ToFEN())
	assert.Equal(t, key, b.Key)
	assert.Empty(t, b.History)
	assert.Greater(t, s.Nodes(), uint64(0))
}

func TestNegamaxStoresInTable(t *testing.T) {
	b := board.NewStartBoard()
	s := newTestSearcher()
	score := s.Negamax(b, 2, -Infinity, Infinity, 1)

	res := s.tt.Probe(b.Key, 2, -Infinity, Infinity)
	require.True(t, res.Found)
	assert.True(t, res.Usable)
	assert.Equal(t, score, res.Score)
	assert.False(t, res.BestMove.IsNull())
}

func TestQuiescenceIsFailHard(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	s := newTestSearcher()
	for _, w := range [][2]int{{-50, 50}, {-Infinity, Infinity}, {2000, 3000}, {-3000, -2000}} {
		v := s.Quiescence(b, w[0], w[1], 1)
		assert.GreaterOrEqual(t, v, w[0])
		assert.LessOrEqual(t, v, w[1])
	}
}

func TestQuiescenceSeesHangingQueen(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	s := newTestSearcher()
	static := Evaluate(b, 1)
	assert.Greater(t, s.Quiescence(b, -Infinity, Infinity, 1), static+QueenValue/2)
}
