package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo is reported after every completed iterative-deepening depth.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	Move     board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth          int           // Maximum depth (0 = up to MaxPly)
	MoveTime       time.Duration // Time for this move (0 = no limit)
	BlunderPercent int           // Chance of replacing the result with a random legal move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply, 500ms, sometimes blunders
	Medium                   // 4 ply, 2s
	Hard                     // 6 ply, 5s
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2, MoveTime: 500 * time.Millisecond, BlunderPercent: 20},
	Medium: {Depth: 4, MoveTime: 2 * time.Second},
	Hard:   {Depth: 6, MoveTime: 5 * time.Second},
}

// String returns the lowercase difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "difficulty(" + strconv.Itoa(int(d)) + ")"
	}
}

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Result is the outcome of one search.
type Result struct {
	Move    board.Move // NoMove when the side to move has no legal move
	Score   int        // From the side to move's perspective
	Depth   int        // Last fully completed depth
	Nodes   uint64
	Elapsed time.Duration
	Status  board.Status // Status of the side to move at the root
	Blunder bool         // Move was replaced by a random legal move
}

// Engine is the chess AI engine.
type Engine struct {
	searcher   *Searcher
	tt         *TranspositionTable
	difficulty Difficulty
	rng        *frand.RNG

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with the given transposition table size in MB.
func NewEngine(ttSizeMB int) *Engine {
	return NewEngineWithTable(NewTranspositionTable(ttSizeMB))
}

// NewEngineWithTable creates an engine that caches results in tt.
func NewEngineWithTable(tt *TranspositionTable) *Engine {
	return &Engine{
		searcher:   NewSearcher(tt),
		tt:         tt,
		difficulty: Medium,
		rng:        frand.New(),
	}
}

// SetSeed makes the blunder decisions reproducible.
func (e *Engine) SetSeed(seed uint64) {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	e.rng = frand.NewCustom(key[:], 1024, 12)
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Table returns the engine's transposition table.
func (e *Engine) Table() *TranspositionTable {
	return e.tt
}

// Nodes returns the node count of the running or last search.
func (e *Engine) Nodes() uint64 {
	return e.searcher.Nodes()
}

// Clear clears the transposition table.
func (e *Engine) Clear() {
	e.tt.Clear()
}

// Search finds the best move for the side to move using the limits of the
// current difficulty.
func (e *Engine) Search(ctx context.Context, b *board.Board) Result {
	limits, ok := DifficultySettings[e.difficulty]
	if !ok {
		limits = DifficultySettings[Medium]
	}
	return e.SearchWithLimits(ctx, b, limits)
}

// SearchWithLimits runs iterative deepening on b, which is mutated during
// the search and restored before returning. The deadline and ctx are
// checked between root moves; a depth interrupted that way is discarded.
func (e *Engine) SearchWithLimits(ctx context.Context, b *board.Board, limits SearchLimits) Result {
	startTime := time.Now()
	e.searcher.Reset()

	side := b.ToMove
	inCheck := b.IsInCheck(side)
	res := Result{Move: board.NoMove, Status: board.Ongoing}
	if inCheck {
		res.Status = board.Check
	}

	root := b.LegalMoves(side)
	if len(root) == 0 {
		res.Status = board.Stalemate
		if inCheck {
			res.Status = board.Checkmate
			res.Score = -MateScore
		}
		res.Elapsed = time.Since(startTime)
		log.Info().Str("status", res.Status.String()).Msg("no-legal-moves")
		return res
	}
	OrderMoves(root, board.NoMove)
	res.Move = root[0]

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}
	if limits.MoveTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limits.MoveTime)
		defer cancel()
	}
	stop := func() bool { return ctx.Err() != nil }

	log.Info().Str("side", side.String()).Int("max-depth", maxDepth).
		Dur("budget", limits.MoveTime).Int("root-moves", len(root)).Msg("search-start")

	for depth := 1; depth <= maxDepth; depth++ {
		MoveToFront(root, res.Move)

		move, score, complete := e.searcher.searchRoot(b, root, depth, stop)
		if !complete {
			log.Debug().Int("depth", depth).Msg("depth-abandoned")
			break
		}
		res.Move, res.Score, res.Depth = move, score, depth

		log.Debug().Int("depth", depth).Int("score", score).
			Uint64("nodes", e.searcher.Nodes()).Str("move", move.String()).Msg("deepening-iteratively")

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    score,
				Nodes:    e.searcher.Nodes(),
				Time:     time.Since(startTime),
				Move:     move,
				HashFull: e.tt.HashFull(),
			})
		}

		// Early termination: found mate
		if IsMateScore(score) {
			break
		}
	}

	if limits.BlunderPercent > 0 && e.rng.Intn(100) < limits.BlunderPercent {
		res.Move = root[e.rng.Intn(len(root))]
		res.Blunder = true
		log.Info().Str("move", res.Move.String()).Msg("blunder")
	}

	res.Nodes = e.searcher.Nodes()
	res.Elapsed = time.Since(startTime)
	log.Info().Str("move", res.Move.String()).Int("score", res.Score).Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).Dur("elapsed", res.Elapsed).Msg("search-done")
	return res
}

// MatePlies converts a mate score found by a search of rootDepth plies into
// the distance to mate in plies. It returns 0 for non-mate scores.
func MatePlies(score, rootDepth int) int {
	if !IsMateScore(score) {
		return 0
	}
	remaining := score - MateScore
	if score < 0 {
		remaining = -score - MateScore
	}
	return rootDepth - remaining
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score, rootDepth int) string {
	if IsMateScore(score) {
		moves := (MatePlies(score, rootDepth) + 1) / 2
		if score > 0 {
			return fmt.Sprintf("Mate in %d", moves)
		}
		return fmt.Sprintf("Mated in %d", moves)
	}
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
