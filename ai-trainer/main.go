package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	setupLogger(getenv("LOG_LEVEL", "info"))
	config := trainerConfigFromEnv(defaultTrainerConfig())
	t := newTrainer(config)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	server := &http.Server{
		Addr:              config.APIAddr,
		Handler:           newStatusRouter(t),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("trainer api server error")
		}
	}()
	log.Info().
		Str("addr", config.APIAddr).
		Int("depth_a", config.DepthA).
		Int("depth_b", config.DepthB).
		Msg("AI trainer service started")

	if err := t.startTraining(); err != nil {
		log.Fatal().Err(err).Msg("could not start training")
	}
	if config.Serve {
		<-sigCtx.Done()
	} else {
		select {
		case <-sigCtx.Done():
		case <-t.jobFinished():
		}
	}
	if err := t.stopTraining("shutdown"); err != nil && !errors.Is(err, errNoTraining) {
		log.Error().Err(err).Msg("stop training failed")
	}

	status := t.getStatus()
	for _, standing := range status.Standings {
		log.Info().
			Str("id", standing.ID).
			Int("wins", standing.Wins).
			Int("losses", standing.Losses).
			Int("draws", standing.Draws).
			Float64("points", standing.Points).
			Float64("elo", standing.Elo).
			Msg("standing")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("trainer service stopping")
	if status.Phase == "error" {
		os.Exit(1)
	}
}

func setupLogger(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str("service", "ai-trainer").
		Logger()
}

func trainerConfigFromEnv(base trainerConfig) trainerConfig {
	cfg := base
	cfg.APIAddr = getenv("TRAINER_API_ADDR", cfg.APIAddr)
	cfg.DepthA = getenvInt("TRAINER_DEPTH_A", cfg.DepthA)
	cfg.DepthB = getenvInt("TRAINER_DEPTH_B", cfg.DepthB)
	cfg.Openings = getenvInt("TRAINER_OPENINGS", cfg.Openings)
	cfg.OpeningPlies = getenvInt("TRAINER_OPENING_PLIES", cfg.OpeningPlies)
	cfg.Seed = uint64(getenvNonNegativeInt("TRAINER_SEED", int(cfg.Seed)))
	cfg.MaxPlies = getenvInt("TRAINER_MAX_PLIES", cfg.MaxPlies)
	cfg.EloK = getenvFloat("TRAINER_ELO_K", cfg.EloK)
	switch getenv("TRAINER_SERVE", "") {
	case "1", "true", "yes":
		cfg.Serve = true
	}
	return cfg
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// getenvNonNegativeInt accepts 0 for settings where zero is a valid value.
func getenvNonNegativeInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed float64
	if _, err := fmt.Sscanf(value, "%g", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
