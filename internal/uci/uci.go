// Package uci speaks the Universal Chess Interface protocol on top of the
// engine, for use with chess GUIs and tournament managers.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

// PreferenceStore persists option changes made through "setoption".
type PreferenceStore interface {
	LoadPreferences() (*storage.UserPreferences, error)
	SavePreferences(*storage.UserPreferences) error
}

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine  *engine.Engine
	thinker *engine.Thinker
	board   *board.Board
	hashMB  int

	prefs PreferenceStore

	out   io.Writer
	outMu sync.Mutex

	// Search state
	searchDone chan struct{}
}

// New creates a new UCI protocol handler writing to out.
func New(eng *engine.Engine, hashMB int, out io.Writer) *UCI {
	return &UCI{
		engine:  eng,
		thinker: engine.NewThinker(eng),
		board:   board.NewStartBoard(),
		hashMB:  hashMB,
		out:     out,
	}
}

// SetPreferenceStore makes option changes persistent.
func (u *UCI) SetPreferenceStore(p PreferenceStore) {
	u.prefs = p
}

// Board returns the current position.
func (u *UCI) Board() *board.Board {
	return u.board
}

// Run reads commands from in until "quit", end of input or ctx is done.
func (u *UCI) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			u.handleStop()
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				u.handleStop()
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if u.HandleLine(ctx, line) {
				return nil
			}
		}
	}
}

// HandleLine executes one command. It reports true on "quit".
func (u *UCI) HandleLine(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		u.println("readyok")
	case "ucinewgame":
		u.handleNewGame()
	case "position":
		u.handlePosition(args)
	case "go":
		u.handleGo(ctx, args)
	case "stop":
		u.handleStop()
	case "quit":
		u.handleStop()
		return true
	case "setoption":
		u.handleSetOption(args)
	// Debug commands
	case "d":
		u.println(u.board.String())
		u.println(u.engine.Table().Stats())
	case "perft":
		u.handlePerft(args)
	default:
		log.Warn().Str("command", cmd).Msg("unknown-command")
	}
	return false
}

func (u *UCI) println(a ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintln(u.out, a...)
}

func (u *UCI) printf(format string, a ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, a...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessCore")
	u.println("id author ChessCore Team")
	u.println()
	u.printf("option name Hash type spin default %d min 1 max 4096\n", u.hashMB)
	u.printf("option name Difficulty type combo default %s var easy var medium var hard\n", u.engine.Difficulty())
	u.println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.engine.Clear()
	u.board = board.NewStartBoard()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var b *board.Board
	switch args[0] {
	case "startpos":
		b = board.NewStartBoard()
	case "fen":
		var err error
		b, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			log.Warn().Err(err).Msg("invalid-fen")
			u.printf("info string invalid FEN: %v\n", err)
			return
		}
	default:
		return
	}

	// Moves go through Apply so the history carries every earlier position
	// for repetition detection.
	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			m, err := b.ParseMove(s)
			if err != nil {
				log.Warn().Err(err).Str("move", s).Msg("invalid-move")
				u.printf("info string invalid move %s: %v\n", s, err)
				return
			}
			b.Apply(m)
		}
	}
	u.board = b
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// isZero reports whether "go" came without any limit.
func (o GoOptions) isZero() bool {
	return o == GoOptions{}
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}
	next := func(i int) int {
		if i+1 < len(args) {
			n, _ := strconv.Atoi(args[i+1])
			return n
		}
		return 0
	}
	ms := func(i int) time.Duration {
		return time.Duration(next(i)) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			opts.Depth = next(i)
			i++
		case "movetime":
			opts.MoveTime = ms(i)
			i++
		case "infinite":
			opts.Infinite = true
		case "wtime":
			opts.WTime = ms(i)
			i++
		case "btime":
			opts.BTime = ms(i)
			i++
		case "winc":
			opts.WInc = ms(i)
			i++
		case "binc":
			opts.BInc = ms(i)
			i++
		case "movestogo":
			opts.MovesToGo = next(i)
			i++
		}
	}
	return opts
}

// calculateLimits converts GoOptions to engine.SearchLimits. A bare "go"
// plays at the configured difficulty.
func (u *UCI) calculateLimits(opts GoOptions) engine.SearchLimits {
	if opts.isZero() {
		return engine.DifficultySettings[u.engine.Difficulty()]
	}

	limits := engine.SearchLimits{Depth: opts.Depth}
	if opts.Infinite {
		return limits
	}
	if opts.MoveTime > 0 {
		limits.MoveTime = opts.MoveTime
	} else if opts.WTime > 0 || opts.BTime > 0 {
		limits.MoveTime = u.calculateTimeForMove(opts)
	}
	return limits
}

// calculateTimeForMove determines how much time to spend on this move.
func (u *UCI) calculateTimeForMove(opts GoOptions) time.Duration {
	clock := engine.Clock{
		Time:      [2]time.Duration{opts.WTime, opts.BTime},
		Inc:       [2]time.Duration{opts.WInc, opts.BInc},
		MovesToGo: opts.MovesToGo,
	}
	return clock.AllocateTime(u.board.ToMove, len(u.board.History))
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(ctx context.Context, args []string) {
	u.handleStop()

	limits := u.calculateLimits(parseGoOptions(args))
	u.engine.OnInfo = u.sendInfo

	if err := u.thinker.StartWithLimits(ctx, u.board, limits); err != nil {
		log.Error().Err(err).Msg("go")
		return
	}

	done := make(chan struct{})
	u.searchDone = done
	go func() {
		defer close(done)
		res, err := u.thinker.Wait()
		if err != nil {
			log.Error().Err(err).Msg("search")
			return
		}
		u.printf("bestmove %s\n", res.Move)
	}()
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{fmt.Sprintf("depth %d", info.Depth)}

	if engine.IsMateScore(info.Score) {
		moves := (engine.MatePlies(info.Score, info.Depth) + 1) / 2
		if info.Score < 0 {
			moves = -moves
		}
		parts = append(parts, fmt.Sprintf("score mate %d", moves))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %d", uint64(float64(info.Nodes)/info.Time.Seconds())))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	if !info.Move.IsNull() {
		parts = append(parts, "pv "+info.Move.String())
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.searchDone == nil {
		return
	}
	u.thinker.Cancel()
	<-u.searchDone
	u.searchDone = nil
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}
	val := strings.Join(value, " ")

	switch strings.ToLower(strings.Join(name, " ")) {
	case "hash":
		mb, err := strconv.Atoi(val)
		if err != nil || mb < 1 {
			u.printf("info string invalid hash size %q\n", val)
			return
		}
		u.handleStop()
		d := u.engine.Difficulty()
		u.engine = engine.NewEngine(mb)
		u.engine.SetDifficulty(d)
		u.thinker = engine.NewThinker(u.engine)
		u.hashMB = mb
		u.savePreferences(func(p *storage.UserPreferences) { p.HashMB = mb })
	case "difficulty":
		d, err := engine.ParseDifficulty(val)
		if err != nil {
			u.printf("info string %v\n", err)
			return
		}
		u.engine.SetDifficulty(d)
		u.savePreferences(func(p *storage.UserPreferences) { p.Difficulty = d })
	default:
		log.Warn().Strs("name", name).Msg("unknown-option")
	}
}

func (u *UCI) savePreferences(update func(*storage.UserPreferences)) {
	if u.prefs == nil {
		return
	}
	p, err := u.prefs.LoadPreferences()
	if err != nil {
		log.Error().Err(err).Msg("load-preferences")
		return
	}
	update(p)
	if err := u.prefs.SavePreferences(p); err != nil {
		log.Error().Err(err).Msg("save-preferences")
	}
}

// handlePerft runs a perft test and prints the per-move split.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}

	start := time.Now()
	var total uint64
	u.board.Divide(depth, func(e board.DivideEntry) {
		total += e.Nodes
		u.printf("%s: %d\n", e.Move, e.Nodes)
	})
	elapsed := time.Since(start)

	u.println()
	u.printf("Nodes searched: %d\n", total)
	if elapsed > 0 {
		u.printf("info string %s nodes in %v (%s nps)\n",
			humanize.Comma(int64(total)), elapsed.Round(time.Millisecond),
			humanize.Comma(int64(float64(total)/elapsed.Seconds())))
	}
}
