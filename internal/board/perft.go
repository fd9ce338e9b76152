package board

// Perft counts the leaf nodes of the legal move tree of the given depth,
// starting with the side to move. It is the standard way to verify move
// generation.
func (b *Board) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := b.LegalMoves(b.ToMove)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		u := b.Apply(m)
		nodes += b.Perft(depth - 1)
		b.Undo(m, u)
	}
	return nodes
}

// DivideEntry is the perft count below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs perft below every root move. The optional callback is
// invoked after each root move completes.
func (b *Board) Divide(depth int, done func(DivideEntry)) []DivideEntry {
	if depth < 1 {
		return nil
	}
	moves := b.LegalMoves(b.ToMove)
	out := make([]DivideEntry, 0, len(moves))
	for _, m := range moves {
		u := b.Apply(m)
		e := DivideEntry{Move: m, Nodes: b.Perft(depth - 1)}
		b.Undo(m, u)
		out = append(out, e)
		if done != nil {
			done(e)
		}
	}
	return out
}
