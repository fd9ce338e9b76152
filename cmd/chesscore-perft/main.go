package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/hailam/chesscore/internal/board"
)

var (
	depth      = flag.Int("depth", 4, "perft depth")
	fen        = flag.String("fen", board.StartFEN, "position to count from")
	divide     = flag.Bool("divide", false, "print the node count below every root move")
	profileDir = flag.String("profile", "", "write a CPU profile into this directory")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.NoShutdownHook).Stop()
	}

	b, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal().Err(err).Msg("fen")
	}
	if *depth < 1 {
		log.Fatal().Int("depth", *depth).Msg("depth must be at least 1")
	}

	roots := len(b.LegalMoves(b.ToMove))
	bar := progressbar.Default(int64(roots), fmt.Sprint("depth ", *depth))

	start := time.Now()
	var total uint64
	entries := b.Divide(*depth, func(e board.DivideEntry) {
		total += e.Nodes
		_ = bar.Add(1)
	})
	elapsed := time.Since(start)
	_ = bar.Finish()

	if *divide {
		for _, e := range entries {
			fmt.Printf("%s: %s\n", e.Move, humanize.Comma(int64(e.Nodes)))
		}
		fmt.Println()
	}

	nps := float64(total) / elapsed.Seconds()
	fmt.Printf("perft(%d) = %s in %v (%s nodes/s)\n",
		*depth, humanize.Comma(int64(total)), elapsed.Round(time.Millisecond), humanize.Comma(int64(nps)))
}
