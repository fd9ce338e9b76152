package board

import (
	"fmt"
	"strings"
)

// SAN converts a legal move to Standard Algebraic Notation, e.g. "Nf3",
// "exd5", "e8=Q+" or "Ra8#".
func (b *Board) SAN(m Move) string {
	if m.IsNull() {
		return "-"
	}

	var sb strings.Builder

	// Piece letter (not for pawns)
	if m.Kind != Pawn {
		sb.WriteByte(m.Kind.Char() - 'a' + 'A')
		sb.WriteString(b.disambiguation(m))
	}

	if m.IsCapture() {
		if m.Kind == Pawn {
			sb.WriteByte('a' + byte(m.From.Col()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(m.To.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte(m.Promotion.Char() - 'a' + 'A')
	}

	u := b.Apply(m)
	switch b.Status(m.Side.Other()) {
	case Checkmate:
		sb.WriteByte('#')
	case Check:
		sb.WriteByte('+')
	}
	b.Undo(m, u)

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed when
// another piece of the same kind can reach the same destination.
func (b *Board) disambiguation(m Move) string {
	sameFile, sameRank, ambiguous := false, false, false
	for _, other := range b.LegalMoves(m.Side) {
		if other.To != m.To || other.From == m.From || other.Kind != m.Kind {
			continue
		}
		ambiguous = true
		if other.From.Col() == m.From.Col() {
			sameFile = true
		}
		if other.From.Row() == m.From.Row() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + m.From.Col()))
	case !sameRank:
		return string(rune('1' + m.From.Row()))
	default:
		return m.From.String()
	}
}

// ParseSAN resolves a SAN string against the legal moves of the side to
// move. Only queen promotions are accepted.
func (b *Board) ParseSAN(s string) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	promotion := NoKind
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		if idx+1 >= len(s) || s[idx+1] != 'Q' {
			return NoMove, fmt.Errorf("%w: %q (only queen promotion)", ErrIllegalMove, orig)
		}
		promotion = Queen
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	kind := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		o, ok := OccupantFromChar(s[0])
		if !ok {
			return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, orig)
		}
		kind = o.Kind()
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}
	s = s[:len(s)-2]

	fromCol, fromRow := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			fromCol = int(c - 'a')
		case c >= '1' && c <= '8':
			fromRow = int(c - '1')
		default:
			return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, orig)
		}
	}

	for _, m := range b.LegalMoves(b.ToMove) {
		if m.To != dest || m.Kind != kind {
			continue
		}
		if fromCol >= 0 && m.From.Col() != fromCol {
			continue
		}
		if fromRow >= 0 && m.From.Row() != fromRow {
			continue
		}
		if isCapture && !m.IsCapture() {
			continue
		}
		if promotion != NoKind && m.Promotion != promotion {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, orig)
}

// MovesToSAN converts a sequence of moves played from b to SAN. b is left
// unchanged.
func (b *Board) MovesToSAN(moves []Move) []string {
	result := make([]string, len(moves))
	undos := make([]Undo, len(moves))

	for i, m := range moves {
		result[i] = b.SAN(m)
		undos[i] = b.Apply(m)
	}
	for i := len(moves) - 1; i >= 0; i-- {
		b.Undo(moves[i], undos[i])
	}

	return result
}
