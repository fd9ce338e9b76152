package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chesscore/internal/server"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	addr       = flag.String("addr", ":8002", "listen address")
	hashMB     = flag.Int("hash", 64, "shared transposition table size in MB")
	dbDir      = flag.String("db", "", "game statistics database directory (default: platform data dir)")
	noStore    = flag.Bool("nostore", false, "do not record finished games")
	profileDir = flag.String("profile", "", "write a CPU profile into this directory")
	jsonLogs   = flag.Bool("json", false, "log JSON instead of console output")
)

func main() {
	flag.Parse()

	if !*jsonLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.NoShutdownHook).Stop()
	}

	var store server.GameStore
	if !*noStore {
		var s *storage.Storage
		var err error
		if *dbDir != "" {
			s, err = storage.Open(*dbDir)
		} else {
			s, err = storage.NewStorage()
		}
		if err != nil {
			log.Fatal().Err(err).Msg("open-storage")
		}
		defer s.Close()
		store = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(*hashMB, store)
	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		log.Error().Err(err).Msg("server")
	}
}
