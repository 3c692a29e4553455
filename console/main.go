package main

import (
	"errors"
	"flag"
	"os"

	"github.com/alfredoyang/gomoku/engine"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	depth := flag.Int("depth", engine.DefaultDepth, "search depth in plies")
	workers := flag.Int("workers", 1, "goroutines searching the root moves")
	verbose := flag.Bool("v", false, "log search statistics")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	game := engine.NewGame(
		engine.WithDepth(*depth),
		engine.WithRootWorkers(*workers),
		engine.WithLogger(log.Logger.With().Str("component", "search").Logger()),
	)
	err := newSession(game, os.Stdin, os.Stdout).run()
	switch {
	case err == nil:
	case errors.Is(err, errAIMove):
		log.Fatal().Err(err).Msg("engine failure")
	default:
		log.Error().Err(err).Msg("session ended")
		os.Exit(1)
	}
}
