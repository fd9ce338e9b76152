package board

// Zobrist hash keys for position hashing.
// Generated from a fixed seed so keys are identical across runs.
var (
	zobristPiece      [2][6][64]uint64 // [Side][PieceKind][Square]
	zobristSideToMove uint64           // XOR once per applied move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// nonZero draws until it gets a non-zero key; 0 marks an empty
// transposition table slot.
func (p *prng) nonZero() uint64 {
	for {
		if v := p.next(); v != 0 {
			return v
		}
	}
}

func initZobrist() {
	rng := newPRNG(12345)

	for s := White; s <= Black; s++ {
		for k := Pawn; k <= King; k++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[s][k][sq] = rng.nonZero()
			}
		}
	}
	zobristSideToMove = rng.nonZero()
}

// ZobristPiece returns the key of an occupant on a square, or 0 for Empty.
func ZobristPiece(o Occupant, sq Square) uint64 {
	if o.IsEmpty() {
		return 0
	}
	return zobristPiece[o.Side()][o.Kind()][sq]
}

// ZobristSideToMove returns the side-to-move key.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}
