package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSAN(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		want string
	}{
		{StartFEN, "e2e4", "e4"},
		{StartFEN, "g1f3", "Nf3"},
		{"4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5", "exd5"},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", "Ra8+"},
		{"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", "Ra8#"},
		{"4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "b1d2", "Nbd2"},
		{"4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "f1d2", "Nfd2"},
		{"4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a1a3", "R1a3"},
		{"4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a5a3", "R5a3"},
		{"4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8q", "a8=Q+"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			b := mustFEN(t, tc.fen)
			before := snap(b)

			m, err := b.ParseMove(tc.move)
			require.NoError(t, err)
			assert.Equal(t, tc.want, b.SAN(m))
			assert.Equal(t, before, snap(b))

			parsed, err := b.ParseSAN(tc.want)
			require.NoError(t, err)
			assert.Equal(t, m, parsed)
		})
	}
}

func TestParseSANErrors(t *testing.T) {
	b := NewStartBoard()
	for _, s := range []string{"Qh5", "e5", "", "Ke2", "e8=N"} {
		_, err := b.ParseSAN(s)
		assert.ErrorIs(t, err, ErrIllegalMove, s)
	}
}

func TestMovesToSAN(t *testing.T) {
	b := NewStartBoard()
	before := snap(b)

	var moves []Move
	replay := b.Clone()
	for _, s := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		m, err := replay.ParseMove(s)
		require.NoError(t, err)
		replay.Apply(m)
		moves = append(moves, m)
	}

	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6"}, b.MovesToSAN(moves))
	assert.Equal(t, before, snap(b))
}
