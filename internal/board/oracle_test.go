package board

import (
	"sort"
	"strings"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"
)

// oracleMoves lists the legal moves of an independent rules implementation
// for the same placement, without castling or en passant rights and with
// underpromotions dropped.
func oracleMoves(t *testing.T, b *Board) []string {
	t.Helper()
	opt, err := chess.FEN(b.ToFEN())
	require.NoError(t, err, b.ToFEN())
	game := chess.NewGame(opt)

	out := []string{}
	for _, m := range game.ValidMoves() {
		s := m.String()
		if len(s) == 5 && !strings.HasSuffix(s, "q") {
			continue
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func TestLegalMovesMatchOracle(t *testing.T) {
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)
	for game := 0; game < 10; game++ {
		b := NewStartBoard()
		for ply := 0; ply < 80; ply++ {
			ours := b.LegalMoves(b.ToMove)
			if !assert.Equal(t, oracleMoves(t, b), moveStrings(ours), b.ToFEN()) {
				return
			}
			if len(ours) == 0 {
				break
			}
			b.Apply(ours[rng.Intn(len(ours))])
		}
	}
}
