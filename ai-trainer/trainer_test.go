package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alfredoyang/gomoku/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTrainerConfig() trainerConfig {
	cfg := defaultTrainerConfig()
	cfg.DepthA = 1
	cfg.DepthB = 1
	cfg.Openings = 1
	cfg.OpeningPlies = 2
	cfg.MaxPlies = 8
	return cfg
}

func TestBuildOpeningSuiteIsDeterministic(t *testing.T) {
	first := buildOpeningSuite(7, 5, 4)
	second := buildOpeningSuite(7, 5, 4)
	require.Equal(t, first, second)
	require.Len(t, first, 5)

	for _, opening := range first {
		require.Len(t, opening, 4)
		seen := map[engine.Move]bool{}
		for _, move := range opening {
			assert.True(t, move.IsValid(), move.String())
			assert.False(t, seen[move], "duplicate %s", move)
			seen[move] = true
			assert.LessOrEqual(t, abs(move.Row-7), 2)
			assert.LessOrEqual(t, abs(move.Col-7), 2)
		}
	}
}

func TestBuildOpeningSuiteCapsPlies(t *testing.T) {
	suite := buildOpeningSuite(3, 1, 50)
	require.Len(t, suite, 1)
	assert.Len(t, suite[0], 11)
}

func TestPlayGameDetectsWin(t *testing.T) {
	tr := newTrainer(testTrainerConfig())
	tr.config.MaxPlies = 20
	opening := []engine.Move{
		engine.NewMove(0, 0), engine.NewMove(14, 14),
		engine.NewMove(0, 1), engine.NewMove(14, 12),
		engine.NewMove(0, 2), engine.NewMove(12, 14),
		engine.NewMove(0, 3), engine.NewMove(10, 10),
	}

	result, err := tr.playGame(context.Background(), 1, 1, opening)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Winner)
	assert.Equal(t, len(opening)+1, result.Plies)
}

func TestPlayGameStopsAtMaxPlies(t *testing.T) {
	tr := newTrainer(testTrainerConfig())
	result, err := tr.playGame(context.Background(), 1, 1, []engine.Move{engine.CenterMove()})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Winner)
	assert.Equal(t, tr.config.MaxPlies, result.Plies)
}

func TestPlayGameRejectsConflictingOpening(t *testing.T) {
	tr := newTrainer(testTrainerConfig())
	_, err := tr.playGame(context.Background(), 1, 1, []engine.Move{engine.CenterMove(), engine.CenterMove()})
	require.ErrorIs(t, err, errOpeningConflict)
	require.ErrorIs(t, err, engine.ErrCellOccupied)
}

func TestPlayGameHonoursCancellation(t *testing.T) {
	tr := newTrainer(testTrainerConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tr.playGame(ctx, 1, 1, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunRoundPlaysBothColours(t *testing.T) {
	tr := newTrainer(testTrainerConfig())
	require.NoError(t, tr.runRound(context.Background()))

	status := tr.getStatus()
	assert.False(t, status.Running)
	assert.Equal(t, "done", status.Phase)
	assert.Equal(t, 2, status.GamesPlayed)
	assert.Equal(t, 2, status.GamesTotal)
	require.Len(t, status.Standings, 2)
	for _, standing := range status.Standings {
		assert.Equal(t, 2, standing.Wins+standing.Losses+standing.Draws, standing.ID)
	}
	assert.InDelta(t, 2.0, status.Standings[0].Points+status.Standings[1].Points, 1e-9)
}

func TestStatusRouter(t *testing.T) {
	tr := newTrainer(testTrainerConfig())
	server := httptest.NewServer(newStatusRouter(tr))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/trainer/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, true, health["ok"])
	assert.Equal(t, false, health["running"])

	resp, err = http.Get(server.URL + "/api/trainer/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	var status trainerStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "idle", status.Phase)
	assert.Len(t, status.Standings, 2)
}

func TestTrainerConfigFromEnv(t *testing.T) {
	t.Setenv("TRAINER_DEPTH_A", "1")
	t.Setenv("TRAINER_DEPTH_B", "4")
	t.Setenv("TRAINER_SEED", "99")
	t.Setenv("TRAINER_SERVE", "1")
	t.Setenv("TRAINER_OPENINGS", "-3")

	cfg := trainerConfigFromEnv(defaultTrainerConfig())
	assert.Equal(t, 1, cfg.DepthA)
	assert.Equal(t, 4, cfg.DepthB)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.True(t, cfg.Serve)
	assert.Equal(t, defaultTrainerConfig().Openings, cfg.Openings)
}

func TestTrainerConfigFromEnvAcceptsZeroSeed(t *testing.T) {
	t.Setenv("TRAINER_SEED", "0")
	t.Setenv("TRAINER_ELO_K", "32")
	t.Setenv("TRAINER_MAX_PLIES", "0")

	cfg := trainerConfigFromEnv(defaultTrainerConfig())
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.InDelta(t, 32.0, cfg.EloK, 1e-9)
	assert.Equal(t, defaultTrainerConfig().MaxPlies, cfg.MaxPlies)
}

func TestUpdateElo(t *testing.T) {
	a := &contender{ID: "a", Elo: initialElo}
	b := &contender{ID: "b", Elo: initialElo}
	updateElo(a, b, 1, 20)
	assert.InDelta(t, 1510.0, a.Elo, 1e-9)
	assert.InDelta(t, 1490.0, b.Elo, 1e-9)

	updateElo(a, b, 0.5, 20)
	assert.Less(t, a.Elo, 1510.0, "a draw costs the favourite rating")
	assert.InDelta(t, 3000.0, a.Elo+b.Elo, 1e-9)
}

func TestStandingsSortedByElo(t *testing.T) {
	tr := newTrainer(testTrainerConfig())
	black, white := tr.contenders[0], tr.contenders[1]
	tr.recordResult(black, white, gameResult{Winner: 2})

	status := tr.getStatus()
	require.Len(t, status.Standings, 2)
	assert.Equal(t, white.ID, status.Standings[0].ID)
	assert.Greater(t, status.Standings[0].Elo, float64(initialElo))
	assert.Less(t, status.Standings[1].Elo, float64(initialElo))
	assert.Equal(t, 1, status.Standings[0].Wins)
	assert.Equal(t, 1, status.GamesPlayed)
}

func postTrainer(t *testing.T, server *httptest.Server, path string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(server.URL+path, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestTrainerStartStopEndpoints(t *testing.T) {
	tr := newTrainer(testTrainerConfig())
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	tr.searchDepth = func(depth int) *engine.Searcher {
		return engine.NewSearcher(
			engine.WithDepth(1),
			engine.WithRootObserver(func(engine.RootCandidate) {
				once.Do(func() { close(entered) })
				<-release
			}),
		)
	}
	server := httptest.NewServer(newStatusRouter(tr))
	defer server.Close()

	code, _ := postTrainer(t, server, "/api/trainer/start")
	require.Equal(t, http.StatusOK, code)
	<-entered
	assert.True(t, tr.getStatus().Running)

	code, body := postTrainer(t, server, "/api/trainer/start")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, errTrainingRunning.Error(), body["error"])

	stopped := make(chan int, 1)
	go func() {
		resp, err := http.Post(server.URL+"/api/trainer/stop", "application/json", nil)
		if err != nil {
			stopped <- 0
			return
		}
		resp.Body.Close()
		stopped <- resp.StatusCode
	}()
	require.Eventually(t, func() bool {
		return tr.getStatus().Phase == "stopping"
	}, 5*time.Second, 5*time.Millisecond)
	close(release)
	assert.Equal(t, http.StatusOK, <-stopped)

	status := tr.getStatus()
	assert.False(t, status.Running)
	assert.Equal(t, "idle", status.Phase)
	assert.Less(t, status.GamesPlayed, status.GamesTotal, "the round was cut short")

	code, body = postTrainer(t, server, "/api/trainer/stop")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, errNoTraining.Error(), body["error"])
}

func TestStartTrainingRunsRoundToCompletion(t *testing.T) {
	tr := newTrainer(testTrainerConfig())
	require.NoError(t, tr.startTraining())

	select {
	case <-tr.jobFinished():
	case <-time.After(30 * time.Second):
		require.FailNow(t, "round did not finish")
	}
	status := tr.getStatus()
	assert.Equal(t, "done", status.Phase)
	assert.Equal(t, status.GamesTotal, status.GamesPlayed)
	assert.ErrorIs(t, tr.stopTraining("test"), errNoTraining)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
