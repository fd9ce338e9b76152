package engine

import (
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinity          = 1000000
	MateScore         = 100000
	MaxPly            = 64
	RepetitionPenalty = 35
)

// IsMateScore reports whether a score comes from a forced mate.
func IsMateScore(score int) bool {
	return score >= MateScore || score <= -MateScore
}

// Searcher runs negamax with alpha-beta pruning and a capture-only
// quiescence search over a board it mutates and restores in place.
type Searcher struct {
	tt    *TranspositionTable
	nodes atomic.Uint64
}

// NewSearcher creates a searcher that caches results in tt.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{tt: tt}
}

// Reset clears the node counter for a new search.
func (s *Searcher) Reset() {
	s.nodes.Store(0)
}

// Nodes returns the number of negamax nodes visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes.Load()
}

// Negamax returns the score of b for the side given by sign (+1 White,
// -1 Black) searched to depth plies within the window [alpha, beta].
//
// A position whose key already occurs in the history scores as a small
// loss. Mate is -(MateScore+depth), so nearer mates are more extreme.
// Mates reached exactly at depth 0 are left to quiescence and not
// recognised.
func (s *Searcher) Negamax(b *board.Board, depth, alpha, beta, sign int) int {
	if b.IsRepetition() {
		return -RepetitionPenalty
	}
	s.nodes.Add(1)

	probe := s.tt.Probe(b.Key, depth, alpha, beta)
	if probe.Usable {
		return probe.Score
	}

	if depth == 0 || !b.KingsPresent() {
		return s.Quiescence(b, alpha, beta, sign)
	}

	side := board.SideFromSign(sign)
	moves := b.LegalMoves(side)
	if len(moves) == 0 {
		if b.IsInCheck(side) {
			return -(MateScore + depth)
		}
		return 0
	}
	OrderMoves(moves, probe.BestMove)

	oldAlpha := alpha
	best := -Infinity
	bestMove := board.NoMove
	for _, m := range moves {
		u := b.Apply(m)
		score := -s.Negamax(b, depth-1, -beta, -alpha, -sign)
		b.Undo(m, u)

		if score > best {
			best, bestMove = score, m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}

	bound := Exact
	if best <= oldAlpha {
		bound = UpperBound
	} else if best >= beta {
		bound = LowerBound
	}
	s.tt.Store(b.Key, best, depth, bound, bestMove)
	return best
}

// Quiescence extends the search along capture sequences only, so that the
// static evaluation is never taken in the middle of an exchange. Fail-hard:
// the result always lies within [alpha, beta].
func (s *Searcher) Quiescence(b *board.Board, alpha, beta, sign int) int {
	standPat := Evaluate(b, sign)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	captures := b.GenerateCaptures(board.SideFromSign(sign))
	OrderMoves(captures, board.NoMove)
	for _, m := range captures {
		u := b.Apply(m)
		score := -s.Quiescence(b, -beta, -alpha, -sign)
		b.Undo(m, u)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// searchRoot scores every root move at depth-1 below the root and returns
// the best. stop is consulted before each root move; when it fires the
// depth is abandoned and complete is false.
func (s *Searcher) searchRoot(b *board.Board, moves []board.Move, depth int, stop func() bool) (best board.Move, score int, complete bool) {
	sign := b.ToMove.Sign()
	alpha, beta := -Infinity, Infinity
	best = board.NoMove
	score = -Infinity
	for _, m := range moves {
		if stop() {
			return best, score, false
		}
		u := b.Apply(m)
		v := -s.Negamax(b, depth-1, -beta, -alpha, -sign)
		b.Undo(m, u)
		if v > score || best.IsNull() {
			best, score = m, v
		}
		if v > alpha {
			alpha = v
		}
	}
	return best, score, true
}
