package engine

import (
	"cmp"
	"slices"

	"github.com/hailam/chesscore/internal/board"
)

// Move ordering priorities
const (
	TTMoveScore      = 10000000 // TT move gets highest priority
	CaptureBase      = 10000    // Base score for captures
	PromotionScore   = 9000     // Pawn reaching the last row
	kingAttackerCost = 2000     // King counted as an attacker for MVV-LVA
)

// attackerCost is the "least valuable attacker" term. The king's material
// value would push its captures below quiet moves, so it is capped just
// above the queen.
func attackerCost(k board.PieceKind) int {
	if k == board.King {
		return kingAttackerCost
	}
	return pieceValues[k]
}

// ScoreMove rates a move for ordering: captures by MVV-LVA, then
// promotions, then everything else at zero.
func ScoreMove(m board.Move) int {
	if m.IsCapture() {
		return CaptureBase + 10*pieceValues[m.Captured.Kind()] - attackerCost(m.Kind)
	}
	if m.Kind == board.Pawn && m.To.Row() == m.Side.PromotionRow() {
		return PromotionScore
	}
	return 0
}

// OrderMoves sorts moves best first. A hash move found in the list goes
// in front of everything. Equal scores keep generation order.
func OrderMoves(moves []board.Move, hashMove board.Move) {
	type scored struct {
		m     board.Move
		score int
	}
	buf := make([]scored, len(moves))
	for i, m := range moves {
		s := ScoreMove(m)
		if !hashMove.IsNull() && m.SameSquares(hashMove) {
			s = TTMoveScore
		}
		buf[i] = scored{m, s}
	}
	slices.SortStableFunc(buf, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	for i := range buf {
		moves[i] = buf[i].m
	}
}

// MoveToFront moves m to index 0, keeping the relative order of the rest.
// It reports whether m was present.
func MoveToFront(moves []board.Move, m board.Move) bool {
	if m.IsNull() {
		return false
	}
	for i, cand := range moves {
		if cand.SameSquares(m) {
			copy(moves[1:i+1], moves[:i])
			moves[0] = cand
			return true
		}
	}
	return false
}
