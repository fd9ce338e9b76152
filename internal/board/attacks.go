package board

// Step tables shared by attack detection and move generation.
var (
	knightSteps   = [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingSteps     = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	rookSteps     = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopSteps   = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenSteps    = kingSteps
	pawnCaptureDc = [2]int{-1, 1}
)

// IsSquareAttacked reports whether any piece of the attacker side attacks
// sq. Pieces of the attacker standing on sq itself are ignored.
func (b *Board) IsSquareAttacked(sq Square, attacker Side) bool {
	// A pawn attacks diagonally forward, so look one row back from sq.
	dir := attacker.PawnDirection()
	for _, dc := range pawnCaptureDc {
		if from, ok := sq.Offset(-dir, dc); ok && b.cells[from].Is(Pawn, attacker) {
			return true
		}
	}

	for _, st := range knightSteps {
		if from, ok := sq.Offset(st[0], st[1]); ok && b.cells[from].Is(Knight, attacker) {
			return true
		}
	}

	for _, st := range kingSteps {
		if from, ok := sq.Offset(st[0], st[1]); ok && b.cells[from].Is(King, attacker) {
			return true
		}
	}

	if b.rayHits(sq, attacker, rookSteps[:], Rook) {
		return true
	}
	return b.rayHits(sq, attacker, bishopSteps[:], Bishop)
}

// rayHits walks each direction from sq until the first occupant and
// reports whether it is an attacker slider of the given kind or a queen.
func (b *Board) rayHits(sq Square, attacker Side, steps [][2]int, slider PieceKind) bool {
	for _, st := range steps {
		cur := sq
		for {
			next, ok := cur.Offset(st[0], st[1])
			if !ok {
				break
			}
			o := b.cells[next]
			if !o.IsEmpty() {
				if o.Side() == attacker && (o.Kind() == slider || o.Kind() == Queen) {
					return true
				}
				break
			}
			cur = next
		}
	}
	return false
}

// IsInCheck reports whether the king of side s is attacked. A side without
// a king counts as in check.
func (b *Board) IsInCheck(s Side) bool {
	sq, ok := b.KingSquare(s)
	if !ok {
		return true
	}
	return b.IsSquareAttacked(sq, s.Other())
}

// Attackers lists the squares of all pieces of side s that attack sq.
func (b *Board) Attackers(sq Square, s Side) []Square {
	var out []Square
	for from := A1; from <= H8; from++ {
		o := b.cells[from]
		if o.IsEmpty() || o.Side() != s || from == sq {
			continue
		}
		if b.attacks(from, sq) {
			out = append(out, from)
		}
	}
	return out
}

// attacks reports whether the piece on from attacks to.
func (b *Board) attacks(from, to Square) bool {
	o := b.cells[from]
	dr, dc := to.Row()-from.Row(), to.Col()-from.Col()
	switch o.Kind() {
	case Pawn:
		return dr == o.Side().PawnDirection() && (dc == 1 || dc == -1)
	case Knight:
		return abs(dr)*abs(dc) == 2
	case King:
		return max(abs(dr), abs(dc)) == 1
	case Rook:
		return (dr == 0 || dc == 0) && b.clearBetween(from, to)
	case Bishop:
		return abs(dr) == abs(dc) && b.clearBetween(from, to)
	case Queen:
		return (dr == 0 || dc == 0 || abs(dr) == abs(dc)) && b.clearBetween(from, to)
	}
	return false
}

// clearBetween reports whether every square strictly between two aligned
// squares is empty.
func (b *Board) clearBetween(from, to Square) bool {
	sr, sc := sign(to.Row()-from.Row()), sign(to.Col()-from.Col())
	cur := from
	for {
		next, ok := cur.Offset(sr, sc)
		if !ok {
			return false
		}
		if next == to {
			return true
		}
		if !b.cells[next].IsEmpty() {
			return false
		}
		cur = next
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
