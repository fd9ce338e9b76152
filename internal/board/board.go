package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBadSquare        = errors.New("invalid square")
	ErrEmptySquare      = errors.New("no piece on origin square")
	ErrOccupantMismatch = errors.New("origin square holds a different piece")
	ErrIllegalMove      = errors.New("illegal move")
	ErrBadFEN           = errors.New("invalid FEN")
)

// Board is the complete search state: the 8x8 grid, the Zobrist key of
// the grid plus side to move, and the keys of every position that led
// here.
//
// Invariant: Key == ComputeKey() at all times. History grows by exactly
// one entry per Apply and shrinks by one per Undo.
type Board struct {
	cells   [64]Occupant
	Key     uint64
	History []uint64
	ToMove  Side
}

// NewBoard returns an empty board with White to move.
func NewBoard() *Board {
	return &Board{History: make([]uint64, 0, 64)}
}

// NewStartBoard returns the standard initial position.
func NewStartBoard() *Board {
	b, _ := ParseFEN(StartFEN)
	return b
}

// Clone returns a deep copy that shares nothing with b.
func (b *Board) Clone() *Board {
	c := *b
	c.History = make([]uint64, len(b.History), max(len(b.History)+64, 64))
	copy(c.History, b.History)
	return &c
}

// At returns the occupant of a square.
func (b *Board) At(sq Square) Occupant {
	return b.cells[sq]
}

// Put writes an occupant directly and keeps the key in sync. It is meant
// for board setup, not for playing moves.
func (b *Board) Put(sq Square, o Occupant) {
	b.Key ^= ZobristPiece(b.cells[sq], sq)
	b.cells[sq] = o
	b.Key ^= ZobristPiece(o, sq)
}

// SetToMove sets the side to move and keeps the key in sync.
func (b *Board) SetToMove(s Side) {
	if s != b.ToMove {
		b.Key ^= zobristSideToMove
		b.ToMove = s
	}
}

// ComputeKey recomputes the Zobrist key from scratch.
func (b *Board) ComputeKey() uint64 {
	var key uint64
	for sq := A1; sq <= H8; sq++ {
		key ^= ZobristPiece(b.cells[sq], sq)
	}
	if b.ToMove == Black {
		key ^= zobristSideToMove
	}
	return key
}

// Apply plays m on the board and returns what is needed to take it back.
// m must come from the move generator for this board; use ApplyChecked
// for moves of unknown origin.
func (b *Board) Apply(m Move) Undo {
	u := Undo{From: b.cells[m.From], To: b.cells[m.To], Promoted: m.IsPromotion()}
	placed := m.Placed()

	b.History = append(b.History, b.Key)

	b.Key ^= ZobristPiece(NewOccupant(m.Kind, m.Side), m.From)
	b.Key ^= ZobristPiece(u.To, m.To)
	b.Key ^= ZobristPiece(placed, m.To)
	b.Key ^= zobristSideToMove

	b.cells[m.From] = Empty
	b.cells[m.To] = placed
	b.ToMove = b.ToMove.Other()
	return u
}

// Undo reverts a move previously played with Apply.
func (b *Board) Undo(m Move, u Undo) {
	placed := NewOccupant(m.Kind, m.Side)
	if u.Promoted {
		placed = NewOccupant(m.Promotion, m.Side)
	}

	b.Key ^= zobristSideToMove
	b.Key ^= ZobristPiece(placed, m.To)
	b.Key ^= ZobristPiece(u.To, m.To)
	b.Key ^= ZobristPiece(NewOccupant(m.Kind, m.Side), m.From)

	b.cells[m.From] = u.From
	b.cells[m.To] = u.To
	b.History = b.History[:len(b.History)-1]
	b.ToMove = b.ToMove.Other()
}

// ApplyChecked validates that m describes the piece actually standing on
// its origin square before applying it.
func (b *Board) ApplyChecked(m Move) (Undo, error) {
	if !m.From.IsValid() || !m.To.IsValid() || m.IsNull() {
		return Undo{}, fmt.Errorf("%w: %s", ErrBadSquare, m)
	}
	from := b.cells[m.From]
	if from.IsEmpty() {
		return Undo{}, fmt.Errorf("%w: %s", ErrEmptySquare, m.From)
	}
	if !from.Is(m.Kind, m.Side) {
		return Undo{}, fmt.Errorf("%w: %s has %s %s", ErrOccupantMismatch, m.From, from.Side(), from.Kind())
	}
	return b.Apply(m), nil
}

// IsRepetition reports whether the current key already occurred earlier.
func (b *Board) IsRepetition() bool {
	for _, k := range b.History {
		if k == b.Key {
			return true
		}
	}
	return false
}

// KingSquare finds the king of a side.
func (b *Board) KingSquare(s Side) (Square, bool) {
	king := NewOccupant(King, s)
	for sq := A1; sq <= H8; sq++ {
		if b.cells[sq] == king {
			return sq, true
		}
	}
	return NoSquare, false
}

// KingsPresent reports whether both kings are still on the board. A board
// missing a king is treated as a finished game.
func (b *Board) KingsPresent() bool {
	var seen [2]bool
	for _, o := range b.cells {
		if o.Kind() == King {
			seen[o.Side()] = true
		}
	}
	return seen[White] && seen[Black]
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 7; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d  ", row+1)
		for col := 0; col < 8; col++ {
			o := b.cells[NewSquare(row, col)]
			if o.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(o.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.ToMove)
	fmt.Fprintf(&sb, "Key: %016x\n", b.Key)
	return sb.String()
}
