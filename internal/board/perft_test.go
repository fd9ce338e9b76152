package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPerftStartingPosition tests move generation from the starting position.
// Castling and en passant cannot occur within four plies, so the standard
// counts apply.
func TestPerftStartingPosition(t *testing.T) {
	b := NewStartBoard()

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tc := range tests {
		if tc.depth >= 4 && testing.Short() {
			continue
		}
		assert.Equal(t, tc.expected, b.Perft(tc.depth), "perft(%d)", tc.depth)
	}
	assert.Equal(t, snap(NewStartBoard()), snap(b))
}

// TestPerftPosition3 uses the rook endgame from the standard perft suite at
// depth 1, before any en passant capture becomes possible.
func TestPerftPosition3(t *testing.T) {
	b := mustFEN(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	assert.Equal(t, uint64(14), b.Perft(1))
}

func TestDivideSumsToPerft(t *testing.T) {
	b := NewStartBoard()
	var calls int
	entries := b.Divide(3, func(DivideEntry) { calls++ })

	var total uint64
	for _, e := range entries {
		total += e.Nodes
	}
	assert.Len(t, entries, 20)
	assert.Equal(t, 20, calls)
	assert.Equal(t, uint64(8902), total)
	assert.Nil(t, b.Divide(0, nil))
}
