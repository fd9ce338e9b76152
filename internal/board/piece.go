package board

// Side identifies one of the two players.
type Side uint8

const (
	White Side = iota
	Black
	NoSide Side = 2
)

// Other returns the opposite side.
func (s Side) Other() Side {
	return s ^ 1
}

// Sign returns +1 for White and -1 for Black, the perspective multiplier
// used by the negamax search.
func (s Side) Sign() int {
	if s == White {
		return 1
	}
	return -1
}

// SideFromSign converts a negamax perspective sign back to a Side.
func SideFromSign(sign int) Side {
	if sign > 0 {
		return White
	}
	return Black
}

// PawnDirection returns the row delta of a pawn push for the side.
func (s Side) PawnDirection() int {
	if s == White {
		return 1
	}
	return -1
}

// PawnStartRow is the row pawns of the side start on.
func (s Side) PawnStartRow() int {
	if s == White {
		return 1
	}
	return 6
}

// PromotionRow is the farthest row from the side's own back rank.
func (s Side) PromotionRow() int {
	if s == White {
		return 7
	}
	return 0
}

// String returns the side name.
func (s Side) String() string {
	switch s {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoSide"
	}
}

// PieceKind represents the kind of a chess piece.
type PieceKind uint8

const (
	Pawn PieceKind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoKind PieceKind = 6
)

// String returns the piece kind name.
func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the lowercase FEN letter of the kind.
func (k PieceKind) Char() byte {
	if k >= NoKind {
		return ' '
	}
	return "pnbrqk"[k]
}

// Occupant is the content of one board cell: either Empty or a
// (PieceKind, Side) pair. It is a plain value; copying a cell copies
// the piece.
//
// Encoded as 1 + kind + side*6 so that the zero value is Empty.
type Occupant uint8

// Empty is the occupant of a vacant cell.
const Empty Occupant = 0

// NewOccupant builds an occupant from a kind and a side.
func NewOccupant(k PieceKind, s Side) Occupant {
	if k >= NoKind || s >= NoSide {
		return Empty
	}
	return Occupant(1 + uint8(k) + uint8(s)*6)
}

// IsEmpty reports whether the cell holds no piece.
func (o Occupant) IsEmpty() bool {
	return o == Empty
}

// Kind returns the piece kind, or NoKind for Empty.
func (o Occupant) Kind() PieceKind {
	if o == Empty {
		return NoKind
	}
	return PieceKind((o - 1) % 6)
}

// Side returns the owning side, or NoSide for Empty.
func (o Occupant) Side() Side {
	if o == Empty {
		return NoSide
	}
	return Side((o - 1) / 6)
}

// Is reports whether the occupant is the given kind of the given side.
func (o Occupant) Is(k PieceKind, s Side) bool {
	return o != Empty && o.Kind() == k && o.Side() == s
}

// String returns the FEN character: uppercase for White, lowercase for
// Black and a space for Empty.
func (o Occupant) String() string {
	if o == Empty {
		return " "
	}
	c := o.Kind().Char()
	if o.Side() == White {
		c -= 'a' - 'A'
	}
	return string(c)
}

// OccupantFromChar converts a FEN character to an occupant.
func OccupantFromChar(c byte) (Occupant, bool) {
	side := Black
	if c >= 'A' && c <= 'Z' {
		side = White
		c += 'a' - 'A'
	}
	switch c {
	case 'p':
		return NewOccupant(Pawn, side), true
	case 'n':
		return NewOccupant(Knight, side), true
	case 'b':
		return NewOccupant(Bishop, side), true
	case 'r':
		return NewOccupant(Rook, side), true
	case 'q':
		return NewOccupant(Queen, side), true
	case 'k':
		return NewOccupant(King, side), true
	}
	return Empty, false
}
