package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// StaticExchange estimates the material outcome for side of starting a
// capture sequence on target, where both sides always recapture with their
// least valuable attacker and may stop when continuing would lose material.
// The first capture is forced. It returns 0 when side cannot capture on
// target at all. The search does not use it.
func StaticExchange(b *board.Board, target board.Square, side board.Side) int {
	victim := b.At(target)
	if victim.IsEmpty() || victim.Side() == side {
		return 0
	}

	work := b.Clone()
	gain := []int{pieceValues[victim.Kind()]}
	stm := side
	for {
		from, ok := cheapestAttacker(work, target, stm)
		if !ok {
			break
		}
		attacker := work.At(from)
		captured := work.At(target)
		work.Put(from, board.Empty)
		work.Put(target, attacker)
		if attacker.Kind() == board.King && work.IsSquareAttacked(target, stm.Other()) {
			// The king may not capture into a defended square.
			work.Put(target, captured)
			work.Put(from, attacker)
			break
		}
		gain = append(gain, pieceValues[attacker.Kind()])
		stm = stm.Other()
	}

	captures := len(gain) - 1
	if captures == 0 {
		return 0
	}
	// gain[i] is the piece that made capture i; it is only lost if capture
	// i+1 happens, so the last capturer's value never counts.
	score := 0
	for i := captures - 1; i >= 1; i-- {
		score = max(0, gain[i]-score)
	}
	return gain[0] - score
}

// cheapestAttacker finds the least valuable piece of s attacking sq.
func cheapestAttacker(b *board.Board, sq board.Square, s board.Side) (board.Square, bool) {
	best, bestValue := board.NoSquare, 0
	for _, from := range b.Attackers(sq, s) {
		v := pieceValues[b.At(from).Kind()]
		if best == board.NoSquare || v < bestValue {
			best, bestValue = from, v
		}
	}
	return best, best != board.NoSquare
}
