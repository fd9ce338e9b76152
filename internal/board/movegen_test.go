package board

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moveStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

func TestQuietAndCaptureSplit(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")

	captures := b.GenerateCaptures(White)
	require.Len(t, captures, 1)
	assert.Equal(t, "e4d5", captures[0].String())
	assert.True(t, captures[0].Captured.Is(Pawn, Black))

	for _, m := range b.GenerateQuietMoves(White) {
		assert.False(t, m.IsCapture(), m.String())
	}
	assert.ElementsMatch(t,
		[]string{"e4e5", "e1d1", "e1f1", "e1d2", "e1e2", "e1f2"},
		moveStrings(b.GenerateQuietMoves(White)))
}

func TestPawnPushes(t *testing.T) {
	b := NewStartBoard()
	moves := moveStrings(b.LegalMoves(White))
	assert.Contains(t, moves, "e2e4")
	assert.Contains(t, moves, "e2e3")
	assert.Len(t, moves, 20)

	// A blocked pawn can neither single nor double push.
	blocked := mustFEN(t, "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1")
	for _, m := range blocked.LegalMoves(White) {
		assert.NotEqual(t, E2, m.From, m.String())
	}

	// Double push needs both squares empty.
	half := mustFEN(t, "4k3/8/8/8/4n3/8/4P3/4K3 w - - 0 1")
	assert.Equal(t, []string{"e2e3"}, pawnMovesFrom(half, E2))

	// Black pawns move down the board.
	black := mustFEN(t, "4k3/3p4/8/8/8/8/8/4K3 b - - 0 1")
	assert.Equal(t, []string{"d7d5", "d7d6"}, pawnMovesFrom(black, D7))
}

func pawnMovesFrom(b *Board, sq Square) []string {
	var out []Move
	for _, m := range b.LegalMoves(b.ToMove) {
		if m.From == sq {
			out = append(out, m)
		}
	}
	return moveStrings(out)
}

func TestPromotionAlwaysQueen(t *testing.T) {
	b := mustFEN(t, "1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	var promos []Move
	for _, m := range b.LegalMoves(White) {
		if m.Kind == Pawn {
			promos = append(promos, m)
		}
	}
	assert.Equal(t, []string{"a7a8q", "a7b8q"}, moveStrings(promos))
	for _, m := range promos {
		assert.Equal(t, Queen, m.Promotion)
	}
}

func TestSlidersStopAtFirstOccupant(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/8/R2p3P/8/8/4K3 w - - 0 1")
	var rook []Move
	for _, m := range b.GenerateQuietMoves(White) {
		if m.From == A4 && m.To.Row() == 3 {
			rook = append(rook, m)
		}
	}
	assert.Equal(t, []string{"a4b4", "a4c4"}, moveStrings(rook))

	var takes []Move
	for _, m := range b.GenerateCaptures(White) {
		if m.From == A4 {
			takes = append(takes, m)
		}
	}
	assert.Equal(t, []string{"a4d4"}, moveStrings(takes))
}

func TestLegalityFilter(t *testing.T) {
	// The e2 rook is pinned against the king by the e8 rook.
	b := mustFEN(t, "4r1k1/8/8/8/8/8/4R3/4K3 w - - 0 1")
	for _, m := range b.LegalMoves(White) {
		if m.From == E2 {
			assert.Equal(t, 4, m.To.Col(), "pinned rook left the file: %s", m)
		}
	}
}

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	for _, fen := range []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4r1k1/8/8/8/8/8/4R3/4K3 w - - 0 1",
	} {
		b := mustFEN(t, fen)
		for _, s := range []Side{White, Black} {
			for _, m := range b.LegalMoves(s) {
				u := b.Apply(m)
				assert.False(t, b.IsInCheck(s), "%s leaves %s in check in %s", m, s, fen)
				b.Undo(m, u)
			}
		}
	}
}

func TestParseMove(t *testing.T) {
	b := NewStartBoard()
	m, err := b.ParseMove("g1f3")
	require.NoError(t, err)
	assert.Equal(t, Knight, m.Kind)
	assert.Equal(t, White, m.Side)

	_, err = b.ParseMove("e2e5")
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = b.ParseMove("z9e4")
	assert.ErrorIs(t, err, ErrBadSquare)

	p := mustFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	_, err = p.ParseMove("a7a8n")
	assert.ErrorIs(t, err, ErrIllegalMove)
	m, err = p.ParseMove("a7a8q")
	require.NoError(t, err)
	assert.True(t, m.IsPromotion())
}
