package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/alfredoyang/gomoku/engine"
	"github.com/rs/zerolog/log"
)

// AIPlayer searches on a copy of the board in the background; Tick polls
// HasMoveReady and applies the result.
type AIPlayer struct {
	moveMutex   sync.Mutex
	workerDone  chan struct{}
	thinking    atomic.Bool
	moveReady   atomic.Bool
	detached    atomic.Bool
	readyResult engine.SearchResult
}

func NewAIPlayer() *AIPlayer {
	return &AIPlayer{}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) StartThinking(board engine.Board, toMove engine.PlayerColor, ghostSink func(ghostPayload)) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)

	boardCopy := board.Clone()
	config := GetConfig()
	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		var (
			observer func(engine.RootCandidate)
			publish  func(ghostPayload)
		)
		if ghostSink != nil {
			publish = func(payload ghostPayload) {
				if !a.detached.Load() {
					ghostSink(payload)
				}
			}
			observer = newGhostObserver(config.AiGhostThrottleMs, toMove, publish)
		}
		result := analyzePosition(boardCopy, toMove, config, observer)
		if publish != nil {
			publish(finalGhostPayload(result, toMove))
		}
		a.moveMutex.Lock()
		a.readyResult = result
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeResult() engine.SearchResult {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyResult
}

// Detach cuts a replaced player off from the session: a search still running
// finishes without publishing ghost payloads.
func (a *AIPlayer) Detach() {
	a.detached.Store(true)
}

// Wait blocks until the background search, if any, has finished.
func (a *AIPlayer) Wait() {
	if a.workerDone != nil {
		<-a.workerDone
	}
}

func newSearcher(config Config, observer func(engine.RootCandidate)) *engine.Searcher {
	options := []engine.Option{
		engine.WithDepth(config.AiDepth),
		engine.WithRootWorkers(config.AiRootWorkers),
		engine.WithLogger(log.Logger.With().Str("component", "search").Logger()),
	}
	if observer != nil {
		options = append(options, engine.WithRootObserver(observer))
	}
	return engine.NewSearcher(options...)
}

func analyzePosition(board engine.Board, toMove engine.PlayerColor, config Config, observer func(engine.RootCandidate)) engine.SearchResult {
	result := newSearcher(config, observer).Search(board, toMove)
	if config.AiLogSearchStats {
		log.Info().
			Stringer("player", toMove).
			Stringer("move", result.Move).
			Int("score", result.Score).
			Object("stats", result.Stats).
			Float64("nps", result.Stats.NodesPerSecond()).
			Msg("ai search")
	}
	return result
}

func moveOrCenter(result engine.SearchResult) engine.Move {
	if !result.HasMove {
		return engine.CenterMove()
	}
	return result.Move
}

func newGhostObserver(throttleMs int, toMove engine.PlayerColor, sink func(ghostPayload)) func(engine.RootCandidate) {
	var (
		mu          sync.Mutex
		lastPublish time.Time
		best        engine.RootCandidate
		hasBest     bool
	)
	player := int(engine.EncodePlayer(toMove))
	return func(candidate engine.RootCandidate) {
		mu.Lock()
		defer mu.Unlock()
		if !hasBest || candidate.Score > best.Score {
			best = candidate
			hasBest = true
		}
		if throttleMs > 0 {
			now := time.Now()
			if !lastPublish.IsZero() && now.Sub(lastPublish) < time.Duration(throttleMs)*time.Millisecond {
				return
			}
			lastPublish = now
		}
		candidateCell := ghostCellFromMove(candidate.Move, player)
		bestCell := ghostCellFromMove(best.Move, player)
		sink(ghostPayload{
			Mode:      "root_candidate",
			Candidate: &candidateCell,
			Best:      &bestCell,
			Score:     candidate.Score,
			BestScore: best.Score,
			Active:    true,
		})
	}
}

func finalGhostPayload(result engine.SearchResult, toMove engine.PlayerColor) ghostPayload {
	payload := ghostPayload{
		Mode:   "root_candidate",
		Active: false,
		Final:  true,
	}
	if result.HasMove {
		bestCell := ghostCellFromMove(result.Move, int(engine.EncodePlayer(toMove)))
		payload.Best = &bestCell
		payload.BestScore = result.Score
		payload.Nodes = result.Stats.Nodes
	}
	return payload
}
