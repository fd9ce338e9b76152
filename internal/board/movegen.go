package board

import "fmt"

// Status summarises the situation of the side to move for callers that
// need check, mate and stalemate flags.
type Status uint8

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// IsTerminal reports whether the game is over.
func (s Status) IsTerminal() bool {
	return s == Checkmate || s == Stalemate
}

// GenerateQuietMoves returns the non-capturing pseudo-legal moves of side s.
// Pawn pushes to the last row are included here as promotions.
func (b *Board) GenerateQuietMoves(s Side) []Move {
	moves := make([]Move, 0, 50)
	for sq := A1; sq <= H8; sq++ {
		o := b.cells[sq]
		if o.IsEmpty() || o.Side() != s {
			continue
		}
		switch o.Kind() {
		case Pawn:
			moves = b.pawnPushes(moves, sq, s)
		case Knight:
			moves = b.stepMoves(moves, sq, o, knightSteps[:], true, false)
		case Bishop:
			moves = b.slideMoves(moves, sq, o, bishopSteps[:], true, false)
		case Rook:
			moves = b.slideMoves(moves, sq, o, rookSteps[:], true, false)
		case Queen:
			moves = b.slideMoves(moves, sq, o, queenSteps[:], true, false)
		case King:
			moves = b.stepMoves(moves, sq, o, kingSteps[:], true, false)
		}
	}
	return moves
}

// GenerateCaptures returns the capturing pseudo-legal moves of side s.
func (b *Board) GenerateCaptures(s Side) []Move {
	moves := make([]Move, 0, 20)
	for sq := A1; sq <= H8; sq++ {
		o := b.cells[sq]
		if o.IsEmpty() || o.Side() != s {
			continue
		}
		switch o.Kind() {
		case Pawn:
			moves = b.pawnCaptures(moves, sq, s)
		case Knight:
			moves = b.stepMoves(moves, sq, o, knightSteps[:], false, true)
		case Bishop:
			moves = b.slideMoves(moves, sq, o, bishopSteps[:], false, true)
		case Rook:
			moves = b.slideMoves(moves, sq, o, rookSteps[:], false, true)
		case Queen:
			moves = b.slideMoves(moves, sq, o, queenSteps[:], false, true)
		case King:
			moves = b.stepMoves(moves, sq, o, kingSteps[:], false, true)
		}
	}
	return moves
}

// PseudoMoves returns quiet moves followed by captures.
func (b *Board) PseudoMoves(s Side) []Move {
	return append(b.GenerateQuietMoves(s), b.GenerateCaptures(s)...)
}

// LegalMoves returns the pseudo-legal moves of s that do not leave its own
// king attacked.
func (b *Board) LegalMoves(s Side) []Move {
	pseudo := b.PseudoMoves(s)
	legal := pseudo[:0]
	for _, m := range pseudo {
		u := b.Apply(m)
		if !b.IsInCheck(s) {
			legal = append(legal, m)
		}
		b.Undo(m, u)
	}
	return legal
}

// HasLegalMove reports whether s has at least one legal move.
func (b *Board) HasLegalMove(s Side) bool {
	for _, m := range b.PseudoMoves(s) {
		u := b.Apply(m)
		ok := !b.IsInCheck(s)
		b.Undo(m, u)
		if ok {
			return true
		}
	}
	return false
}

// Status reports check, checkmate or stalemate for side s.
func (b *Board) Status(s Side) Status {
	inCheck := b.IsInCheck(s)
	if !b.HasLegalMove(s) {
		if inCheck {
			return Checkmate
		}
		return Stalemate
	}
	if inCheck {
		return Check
	}
	return Ongoing
}

// FindMove resolves a (from, to) intent of side s into a legal move.
// Promotions always yield a queen.
func (b *Board) FindMove(s Side, from, to Square) (Move, error) {
	for _, m := range b.LegalMoves(s) {
		if m.From == from && m.To == to {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
}

// ParseMove resolves a coordinate move string such as "e2e4" or "a7a8q"
// against the legal moves of the side to move.
func (b *Board) ParseMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	m, err := b.FindMove(b.ToMove, from, to)
	if err != nil {
		return NoMove, err
	}
	if len(s) == 5 && (!m.IsPromotion() || s[4] != m.Promotion.Char()) {
		return NoMove, fmt.Errorf("%w: %q (only queen promotion)", ErrIllegalMove, s)
	}
	return m, nil
}

func (b *Board) pawnPushes(moves []Move, sq Square, s Side) []Move {
	dir := s.PawnDirection()
	one, ok := sq.Offset(dir, 0)
	if !ok || !b.cells[one].IsEmpty() {
		return moves
	}
	moves = append(moves, pawnMove(sq, one, s, Empty))
	if sq.Row() == s.PawnStartRow() {
		if two, ok := sq.Offset(2*dir, 0); ok && b.cells[two].IsEmpty() {
			moves = append(moves, pawnMove(sq, two, s, Empty))
		}
	}
	return moves
}

func (b *Board) pawnCaptures(moves []Move, sq Square, s Side) []Move {
	dir := s.PawnDirection()
	for _, dc := range pawnCaptureDc {
		to, ok := sq.Offset(dir, dc)
		if !ok {
			continue
		}
		if target := b.cells[to]; !target.IsEmpty() && target.Side() != s {
			moves = append(moves, pawnMove(sq, to, s, target))
		}
	}
	return moves
}

// pawnMove tags pushes onto the last row as queen promotions.
func pawnMove(from, to Square, s Side, captured Occupant) Move {
	m := NewMove(from, to, Pawn, s, captured)
	if to.Row() == s.PromotionRow() {
		m.Promotion = Queen
	}
	return m
}

func (b *Board) stepMoves(moves []Move, sq Square, o Occupant, steps [][2]int, quiet, captures bool) []Move {
	for _, st := range steps {
		to, ok := sq.Offset(st[0], st[1])
		if !ok {
			continue
		}
		target := b.cells[to]
		switch {
		case target.IsEmpty():
			if quiet {
				moves = append(moves, NewMove(sq, to, o.Kind(), o.Side(), Empty))
			}
		case target.Side() != o.Side():
			if captures {
				moves = append(moves, NewMove(sq, to, o.Kind(), o.Side(), target))
			}
		}
	}
	return moves
}

func (b *Board) slideMoves(moves []Move, sq Square, o Occupant, steps [][2]int, quiet, captures bool) []Move {
	for _, st := range steps {
		cur := sq
		for {
			to, ok := cur.Offset(st[0], st[1])
			if !ok {
				break
			}
			target := b.cells[to]
			if target.IsEmpty() {
				if quiet {
					moves = append(moves, NewMove(sq, to, o.Kind(), o.Side(), Empty))
				}
				cur = to
				continue
			}
			if captures && target.Side() != o.Side() {
				moves = append(moves, NewMove(sq, to, o.Kind(), o.Side(), target))
			}
			break
		}
	}
	return moves
}
