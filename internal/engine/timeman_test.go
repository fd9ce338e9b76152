package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hailam/chesscore/internal/board"
)

func TestAllocateTime(t *testing.T) {
	tests := []struct {
		name  string
		clock Clock
		side  board.Side
		ply   int
		want  time.Duration
	}{
		{"no clock", Clock{}, board.White, 0, 0},
		{"opening buffer", Clock{Time: [2]time.Duration{time.Minute}, Inc: [2]time.Duration{time.Second}}, board.White, 0, 1785 * time.Millisecond},
		{"middlegame", Clock{Time: [2]time.Duration{0, 80 * time.Second}}, board.Black, 40, 2 * time.Second},
		{"late game floor", Clock{Time: [2]time.Duration{10 * time.Second}}, board.White, 400, time.Second},
		{"moves to go", Clock{Time: [2]time.Duration{20 * time.Second}, MovesToGo: 10}, board.White, 20, 2 * time.Second},
		{"capped by clock", Clock{Time: [2]time.Duration{100 * time.Millisecond}, Inc: [2]time.Duration{time.Second}}, board.White, 20, 80 * time.Millisecond},
		{"minimum", Clock{Time: [2]time.Duration{50 * time.Millisecond}}, board.White, 20, 10 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.clock.AllocateTime(tc.side, tc.ply))
		})
	}
}
