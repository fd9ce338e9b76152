package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	hashMB     = flag.Int("hash", 0, "transposition table size in MB (default: saved preference)")
	difficulty = flag.String("difficulty", "", "easy, medium or hard (default: saved preference)")
	dbDir      = flag.String("db", "", "preferences database directory (default: platform data dir)")
	noStore    = flag.Bool("nostore", false, "do not load or save preferences")
	profileDir = flag.String("profile", "", "write a CPU profile into this directory")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	// stdout belongs to the protocol; logs go to stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.NoShutdownHook).Stop()
	}

	prefs := storage.DefaultPreferences()
	var store *storage.Storage
	if !*noStore {
		var err error
		if *dbDir != "" {
			store, err = storage.Open(*dbDir)
		} else {
			store, err = storage.NewStorage()
		}
		if err != nil {
			log.Warn().Err(err).Msg("preferences unavailable")
		} else {
			defer store.Close()
			if prefs, err = store.LoadPreferences(); err != nil {
				log.Warn().Err(err).Msg("load-preferences")
				prefs = storage.DefaultPreferences()
			}
		}
	}

	if *hashMB > 0 {
		prefs.HashMB = *hashMB
	}
	if *difficulty != "" {
		d, err := engine.ParseDifficulty(*difficulty)
		if err != nil {
			log.Fatal().Err(err).Msg("flags")
		}
		prefs.Difficulty = d
	}

	eng := engine.NewEngine(prefs.HashMB)
	eng.SetDifficulty(prefs.Difficulty)

	protocol := uci.New(eng, prefs.HashMB, os.Stdout)
	if store != nil {
		protocol.SetPreferenceStore(store)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := protocol.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("uci")
	}
}
