package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	setupLogger(getenv("LOG_LEVEL", "info"))
	configStore.Update(configFromEnv(DefaultConfig()))
	addr := getenv("BACKEND_ADDR", ":8080")
	tickInterval := time.Duration(getenvInt("TICK_INTERVAL_MS", 50)) * time.Millisecond

	controller := NewGameController(DefaultGameSettings())
	hub := NewHub()
	ghostHub := NewGhostHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controller.SetGhostPublisher(
		func() bool { return ghostHub.HasClients() && GetConfig().GhostMode },
		ghostHub.Publish,
	)

	go hub.Run(ctx.Done())
	go ghostHub.Run(ctx.Done())
	go runTicker(ctx, controller, hub, tickInterval)

	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(controller, hub, ghostHub),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().Str("addr", addr).Interface("config", GetConfig()).Msg("backend listening")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Info().Err(sigCtx.Err()).Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}

	cancel()
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("exiting after server error")
	}
}

func runTicker(ctx context.Context, controller *GameController, hub *Hub, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastStatus := StatusNotStarted
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if controller.Tick() {
				broadcastMove(controller, hub)
			}
			status := controller.Snapshot().Status
			if status == StatusError && lastStatus != StatusError {
				hub.broadcastStatus <- controllerStatus(controller)
			}
			lastStatus = status
		}
	}
}
