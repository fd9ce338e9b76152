package engine

import (
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// Clock holds tournament time control parameters, indexed by side.
type Clock struct {
	Time      [2]time.Duration // remaining time
	Inc       [2]time.Duration // increment per move
	MovesToGo int              // moves until next time control (0 = sudden death)
}

// AllocateTime returns how long side s may think at game ply. It returns 0
// when s has no clock, meaning no time limit.
func (c Clock) AllocateTime(s board.Side, ply int) time.Duration {
	timeLeft := c.Time[s]
	if timeLeft <= 0 {
		return 0
	}

	// Sudden death: estimate moves remaining from the game phase
	mtg := c.MovesToGo
	if mtg <= 0 {
		mtg = min(max(50-ply/4, 10), 50)
	}

	moveTime := timeLeft/time.Duration(mtg) + c.Inc[s]*9/10

	// Keep a buffer in the opening
	if ply < 8 {
		moveTime = moveTime * 85 / 100
	}

	// The deadline is hard, so never plan past 80% of what is left
	if limit := timeLeft * 8 / 10; moveTime > limit {
		moveTime = limit
	}
	if moveTime < 10*time.Millisecond {
		moveTime = 10 * time.Millisecond
	}
	return moveTime
}
