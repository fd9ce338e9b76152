package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// ParseFEN parses a FEN string into a Board. Only piece placement and the
// side to move are used; castling and en passant fields are accepted and
// ignored because neither move exists here.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 fields, got %d", ErrBadFEN, len(parts))
	}

	b := NewBoard()
	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		b.SetToMove(White)
	case "b":
		b.SetToMove(Black)
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrBadFEN, parts[1])
	}

	return b, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrBadFEN, len(rows))
	}

	for i, rowStr := range rows {
		row := 7 - i // FEN starts from rank 8
		col := 0

		for _, c := range rowStr {
			if col > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrBadFEN, row+1)
			}
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			o, ok := OccupantFromChar(byte(c))
			if !ok {
				return fmt.Errorf("%w: piece character %q", ErrBadFEN, c)
			}
			b.Put(NewSquare(row, col), o)
			col++
		}

		if col != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrBadFEN, row+1, col)
		}
	}
	return nil
}

// ToFEN returns the FEN representation of the board.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	for row := 7; row >= 0; row-- {
		empty := 0
		for col := 0; col < 8; col++ {
			o := b.cells[NewSquare(row, col)]
			if o.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(o.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	if b.ToMove == White {
		sb.WriteString(" w")
	} else {
		sb.WriteString(" b")
	}
	sb.WriteString(" - - 0 1")
	return sb.String()
}
