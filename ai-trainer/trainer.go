package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/alfredoyang/gomoku/engine"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

type trainerConfig struct {
	APIAddr      string
	DepthA       int
	DepthB       int
	Openings     int
	OpeningPlies int
	Seed         uint64
	MaxPlies     int
	EloK         float64
	Serve        bool
}

type trainer struct {
	config      trainerConfig
	contenders  [2]*contender
	statusMu    sync.RWMutex
	status      trainerStatus
	searchDepth func(int) *engine.Searcher

	jobMu     sync.Mutex
	jobCancel context.CancelFunc
	jobDone   chan struct{}
}

type contender struct {
	ID     string
	Depth  int
	Wins   int
	Losses int
	Draws  int
	Elo    float64
}

type trainerStatus struct {
	Running      bool              `json:"running"`
	Phase        string            `json:"phase"`
	Message      string            `json:"message"`
	StartedAt    string            `json:"started_at"`
	UpdatedAt    string            `json:"updated_at"`
	GamesPlayed  int               `json:"games_played"`
	GamesTotal   int               `json:"games_total"`
	CurrentMatch *trainerMatch     `json:"current_match,omitempty"`
	Standings    []trainerStanding `json:"standings"`
}

type trainerMatch struct {
	BlackID      string `json:"black_id"`
	WhiteID      string `json:"white_id"`
	OpeningIndex int    `json:"opening_index"`
}

type trainerStanding struct {
	ID     string  `json:"id"`
	Depth  int     `json:"depth"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Draws  int     `json:"draws"`
	Points float64 `json:"points"`
	Elo    float64 `json:"elo"`
}

// gameResult holds the outcome of one self-play game. Winner is 0 for a draw.
type gameResult struct {
	Winner int
	Plies  int
}

var (
	errOpeningConflict = errors.New("opening move rejected")
	errTrainingRunning = errors.New("training already running")
	errNoTraining      = errors.New("no running training job")
)

const initialElo = 1500

func defaultTrainerConfig() trainerConfig {
	return trainerConfig{
		APIAddr:      ":8090",
		DepthA:       2,
		DepthB:       engine.DefaultDepth,
		Openings:     4,
		OpeningPlies: 4,
		Seed:         1,
		MaxPlies:     engine.Size * engine.Size,
		EloK:         20,
	}
}

func newTrainer(config trainerConfig) *trainer {
	t := &trainer{
		config: config,
		contenders: [2]*contender{
			{ID: fmt.Sprintf("depth-%d-a", config.DepthA), Depth: config.DepthA, Elo: initialElo},
			{ID: fmt.Sprintf("depth-%d-b", config.DepthB), Depth: config.DepthB, Elo: initialElo},
		},
		status: trainerStatus{
			Phase:     "idle",
			Message:   "service ready",
			StartedAt: time.Now().UTC().Format(time.RFC3339),
			UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
	t.searchDepth = func(depth int) *engine.Searcher {
		return engine.NewSearcher(
			engine.WithDepth(depth),
			engine.WithLogger(log.Logger.With().Str("component", "search").Int("depth", depth).Logger()),
		)
	}
	t.status.Standings = t.standings()
	return t
}

func (t *trainer) getStatus() trainerStatus {
	t.statusMu.RLock()
	defer t.statusMu.RUnlock()
	status := t.status
	status.Standings = append([]trainerStanding(nil), t.status.Standings...)
	return status
}

func (t *trainer) updateStatus(mutator func(*trainerStatus)) {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()
	mutator(&t.status)
	t.status.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// startTraining launches one round in the background. Only one round runs at a time.
func (t *trainer) startTraining() error {
	t.jobMu.Lock()
	defer t.jobMu.Unlock()
	if t.jobCancel != nil {
		return errTrainingRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.jobCancel = cancel
	t.jobDone = done
	t.updateStatus(func(s *trainerStatus) {
		s.Running = true
		s.Phase = "starting"
		s.Message = "training starting"
		s.GamesPlayed = 0
	})
	go func() {
		defer close(done)
		err := t.runRound(ctx)
		switch {
		case errors.Is(err, context.Canceled):
			log.Warn().Msg("round interrupted")
		case err != nil:
			log.Error().Err(err).Msg("round failed")
		}
		t.jobMu.Lock()
		t.jobCancel = nil
		t.jobDone = nil
		t.jobMu.Unlock()
		cancel()
	}()
	return nil
}

// stopTraining cancels the running round and waits for it to return.
func (t *trainer) stopTraining(reason string) error {
	t.jobMu.Lock()
	cancel := t.jobCancel
	done := t.jobDone
	t.jobMu.Unlock()
	if cancel == nil {
		return errNoTraining
	}
	log.Info().Str("reason", reason).Msg("stopping training")
	cancel()
	t.updateStatus(func(s *trainerStatus) {
		s.Phase = "stopping"
		s.Message = reason
	})
	<-done
	t.updateStatus(func(s *trainerStatus) {
		s.Running = false
		s.Phase = "idle"
		s.Message = "service ready"
	})
	return nil
}

// jobFinished is closed once no round is running.
func (t *trainer) jobFinished() <-chan struct{} {
	t.jobMu.Lock()
	defer t.jobMu.Unlock()
	if t.jobDone == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return t.jobDone
}

// runRound plays every opening twice, once with each contender on Black.
func (t *trainer) runRound(ctx context.Context) error {
	openings := buildOpeningSuite(t.config.Seed, t.config.Openings, t.config.OpeningPlies)
	total := len(openings) * 2
	t.updateStatus(func(s *trainerStatus) {
		s.Running = true
		s.Phase = "running"
		s.Message = "self-play round running"
		s.GamesPlayed = 0
		s.GamesTotal = total
	})
	log.Info().
		Str("a", t.contenders[0].ID).
		Str("b", t.contenders[1].ID).
		Int("openings", len(openings)).
		Uint64("seed", t.config.Seed).
		Msg("round started")

	err := t.playOpenings(ctx, openings)
	t.updateStatus(func(s *trainerStatus) {
		s.Running = false
		s.CurrentMatch = nil
		if errors.Is(err, context.Canceled) {
			s.Phase = "stopped"
			s.Message = "round stopped"
			return
		}
		if err != nil {
			s.Phase = "error"
			s.Message = err.Error()
			return
		}
		s.Phase = "done"
		s.Message = "round complete"
	})
	return err
}

func (t *trainer) playOpenings(ctx context.Context, openings [][]engine.Move) error {
	for index, opening := range openings {
		for _, pairing := range [][2]*contender{
			{t.contenders[0], t.contenders[1]},
			{t.contenders[1], t.contenders[0]},
		} {
			black, white := pairing[0], pairing[1]
			t.updateStatus(func(s *trainerStatus) {
				s.CurrentMatch = &trainerMatch{BlackID: black.ID, WhiteID: white.ID, OpeningIndex: index}
			})
			result, err := t.playGame(ctx, black.Depth, white.Depth, opening)
			if err != nil {
				return fmt.Errorf("opening %d %s vs %s: %w", index, black.ID, white.ID, err)
			}
			t.recordResult(black, white, result)
			log.Info().
				Int("opening", index).
				Str("black", black.ID).
				Str("white", white.ID).
				Int("winner", result.Winner).
				Int("plies", result.Plies).
				Msg("game finished")
		}
	}
	return nil
}

func (t *trainer) playGame(ctx context.Context, blackDepth, whiteDepth int, opening []engine.Move) (gameResult, error) {
	game := engine.NewGame()
	for _, move := range opening {
		if err := game.MakeMove(move.Row, move.Col); err != nil {
			return gameResult{}, fmt.Errorf("%w: %s: %w", errOpeningConflict, move, err)
		}
		game.SwitchPlayer()
	}
	searchers := map[engine.PlayerColor]*engine.Searcher{
		engine.PlayerBlack: t.searchDepth(blackDepth),
		engine.PlayerWhite: t.searchDepth(whiteDepth),
	}
	plies := len(opening)
	for {
		if winner, ok := game.CheckWinner(); ok {
			return gameResult{Winner: int(engine.EncodePlayer(winner)), Plies: plies}, nil
		}
		if game.IsBoardFull() || plies >= t.config.MaxPlies {
			return gameResult{Plies: plies}, nil
		}
		if err := ctx.Err(); err != nil {
			return gameResult{}, err
		}
		game.SetSearcher(searchers[game.CurrentPlayer()])
		move := game.AIMove()
		if err := game.MakeMove(move.Row, move.Col); err != nil {
			return gameResult{}, fmt.Errorf("ai move %s for %s: %w", move, game.CurrentPlayer(), err)
		}
		plies++
		game.SwitchPlayer()
	}
}

func (t *trainer) recordResult(black, white *contender, result gameResult) {
	t.statusMu.Lock()
	switch result.Winner {
	case 1:
		black.Wins++
		white.Losses++
	case 2:
		white.Wins++
		black.Losses++
	default:
		black.Draws++
		white.Draws++
	}
	updateElo(black, white, scoreForBlack(result.Winner), t.config.EloK)
	t.statusMu.Unlock()
	t.updateStatus(func(s *trainerStatus) {
		s.GamesPlayed++
		s.Standings = t.standings()
	})
}

func (t *trainer) standings() []trainerStanding {
	list := make([]trainerStanding, 0, len(t.contenders))
	for _, c := range t.contenders {
		list = append(list, trainerStanding{
			ID:     c.ID,
			Depth:  c.Depth,
			Wins:   c.Wins,
			Losses: c.Losses,
			Draws:  c.Draws,
			Points: float64(c.Wins) + 0.5*float64(c.Draws),
			Elo:    c.Elo,
		})
	}
	slices.SortStableFunc(list, func(a, b trainerStanding) int {
		return cmp.Compare(b.Elo, a.Elo)
	})
	return list
}

func scoreForBlack(winner int) float64 {
	switch winner {
	case 1:
		return 1
	case 2:
		return 0
	default:
		return 0.5
	}
}

func updateElo(a, b *contender, resultForA, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}

// buildOpeningSuite picks count openings of plies stones near the centre.
// The same seed always yields the same suite.
func buildOpeningSuite(seed uint64, count, plies int) [][]engine.Move {
	rng := rand.New(rand.NewSource(seed))
	center := engine.CenterMove()
	offsets := [][2]int{
		{0, 0}, {1, 0}, {0, 1}, {-1, 0}, {0, -1}, {1, 1}, {-1, -1}, {1, -1}, {-1, 1}, {2, 0}, {0, 2},
	}
	if plies > len(offsets) {
		plies = len(offsets)
	}
	suite := make([][]engine.Move, 0, count)
	for i := 0; i < count; i++ {
		used := map[engine.Move]bool{}
		opening := make([]engine.Move, 0, plies)
		for len(opening) < plies {
			off := offsets[rng.Intn(len(offsets))]
			move := engine.NewMove(center.Row+off[0], center.Col+off[1])
			if used[move] {
				continue
			}
			used[move] = true
			opening = append(opening, move)
		}
		suite = append(suite, opening)
	}
	return suite
}
