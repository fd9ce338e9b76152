// Package board implements the mailbox chess board used by the search:
// an 8x8 grid of value-typed occupants with an incrementally maintained
// Zobrist key, pseudo-legal move generation and attack detection.
package board

import "fmt"

// Square addresses one cell of the board as row*8+col. Row 0 is White's
// back rank, col 0 is the a-file.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// NewSquare creates a square from a row and a column. The caller must
// check bounds with OnBoard first.
func NewSquare(row, col int) Square {
	return Square(row*8 + col)
}

// OnBoard reports whether (row, col) lies on the 8x8 board.
func OnBoard(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

// Row returns the row (0-7) of the square.
func (sq Square) Row() int {
	return int(sq) >> 3
}

// Col returns the column (0-7) of the square.
func (sq Square) Col() int {
	return int(sq) & 7
}

// Offset returns the square dr rows and dc columns away, and false if it
// falls off the board.
func (sq Square) Offset(dr, dc int) (Square, bool) {
	r, c := sq.Row()+dr, sq.Col()+dc
	if !OnBoard(r, c) {
		return NoSquare, false
	}
	return NewSquare(r, c), true
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// String returns the coordinate name of the square (e.g. "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col(), '1'+sq.Row())
}

// ParseSquare parses a coordinate name (e.g. "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrBadSquare, s)
	}
	col := int(s[0]) - 'a'
	row := int(s[1]) - '1'
	if !OnBoard(row, col) {
		return NoSquare, fmt.Errorf("%w: %q", ErrBadSquare, s)
	}
	return NewSquare(row, col), nil
}
