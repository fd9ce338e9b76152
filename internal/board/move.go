package board

// Move is an immutable description of one move. It carries the moving
// piece and the captured occupant so that ordering and undo never need to
// look the board up again.
type Move struct {
	From      Square
	To        Square
	Kind      PieceKind
	Side      Side
	Captured  Occupant
	Promotion PieceKind // NoKind unless the move promotes
}

// NoMove represents the absence of a move.
var NoMove = Move{}

// NewMove creates a non-promoting move.
func NewMove(from, to Square, kind PieceKind, side Side, captured Occupant) Move {
	return Move{From: from, To: to, Kind: kind, Side: side, Captured: captured, Promotion: NoKind}
}

// IsNull reports whether m is NoMove (or any move that goes nowhere).
func (m Move) IsNull() bool {
	return m.From == m.To
}

// IsCapture returns true if the move takes a piece.
func (m Move) IsCapture() bool {
	return !m.Captured.IsEmpty()
}

// IsPromotion returns true if the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoKind && !m.IsNull()
}

// Placed is the occupant that ends up on the destination square.
func (m Move) Placed() Occupant {
	if m.IsPromotion() {
		return NewOccupant(m.Promotion, m.Side)
	}
	return NewOccupant(m.Kind, m.Side)
}

// SameSquares reports whether two moves connect the same squares with the
// same promotion. Used to match a remembered move against a fresh list.
func (m Move) SameSquares(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String returns the coordinate form of the move (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// Undo records what Apply overwrote: the prior occupants of the two
// cells and whether a promotion has to be reverted.
type Undo struct {
	From     Occupant
	To       Occupant
	Promoted bool
}
