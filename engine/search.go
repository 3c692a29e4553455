package engine

import (
	"math"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultDepth is the number of plies searched when no WithDepth option is given.
const DefaultDepth = 3

type Option func(s *Searcher)

// RootCandidate is one scored child of the search root. In sequential mode a
// score that does not improve on the best so far is an upper bound only.
type RootCandidate struct {
	Move  Move
	Score int
}

type Searcher struct {
	depth    int
	workers  int
	logger   zerolog.Logger
	observer func(RootCandidate)
}

type SearchResult struct {
	Score   int
	Move    Move
	HasMove bool
	Stats   SearchStats
}

func WithDepth(depth int) Option {
	return func(s *Searcher) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

// WithRootWorkers searches the root's children on that many goroutines.
// Each child gets a full window, so the chosen move matches the sequential search.
func WithRootWorkers(workers int) Option {
	return func(s *Searcher) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// WithRootObserver registers fn for every scored root child. With more than
// one root worker fn is called concurrently.
func WithRootObserver(fn func(RootCandidate)) Option {
	return func(s *Searcher) {
		s.observer = fn
	}
}

func NewSearcher(options ...Option) *Searcher {
	s := &Searcher{ // Default values
		depth:   DefaultDepth,
		workers: 1,
		logger:  zerolog.Nop(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Searcher) Depth() int {
	return s.depth
}

func (s *Searcher) Workers() int {
	return s.workers
}

// Search runs minimax with alpha-beta pruning for toMove, which is also the
// side whose evaluation is maximized. board is never modified.
func (s *Searcher) Search(board Board, toMove PlayerColor) SearchResult {
	stats := newStatsCollector()
	var result SearchResult
	if s.workers > 1 {
		result = s.searchRootParallel(board, toMove, stats)
	} else {
		score, move, ok := s.minimax(board, s.depth, 0, math.MinInt, math.MaxInt, toMove, toMove, stats)
		result = SearchResult{Score: score, Move: move, HasMove: ok}
	}
	result.Stats = stats.Complete(s.depth, s.workers)
	s.logger.Debug().
		Stringer("player", toMove).
		Stringer("move", result.Move).
		Bool("has_move", result.HasMove).
		Int("score", result.Score).
		Object("stats", result.Stats).
		Msg("search complete")
	return result
}

// BestMove returns the searched move, or the board centre when the search
// recorded none.
func (s *Searcher) BestMove(board Board, toMove PlayerColor) Move {
	result := s.Search(board, toMove)
	if !result.HasMove {
		return CenterMove()
	}
	return result.Move
}

func (s *Searcher) minimax(board Board, depth, ply, alpha, beta int, player, aiPlayer PlayerColor, stats *searchStatsCollector) (int, Move, bool) {
	if isTerminal(board, depth) {
		stats.AddLeaf()
		return Evaluate(board, aiPlayer), Move{}, false
	}
	moves := ValidMoves(board)
	if len(moves) == 0 {
		stats.AddLeaf()
		return Evaluate(board, aiPlayer), Move{}, false
	}
	stats.AddNode()

	maximizing := player == aiPlayer
	stone := CellFromPlayer(player)
	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}
	var bestMove Move
	found := false
	for _, move := range moves {
		child := board
		child.Set(move.Row, move.Col, stone)
		score, _, _ := s.minimax(child, depth-1, ply+1, alpha, beta, player.Opponent(), aiPlayer, stats)
		if ply == 0 {
			s.observe(move, score)
		}
		if maximizing {
			if score > best {
				best = score
				bestMove = move
				found = true
			}
			alpha = max(alpha, score)
		} else {
			if score < best {
				best = score
				bestMove = move
				found = true
			}
			beta = min(beta, score)
		}
		if beta <= alpha {
			stats.AddCutoff()
			break
		}
	}
	return best, bestMove, found
}

func (s *Searcher) searchRootParallel(board Board, aiPlayer PlayerColor, stats *searchStatsCollector) SearchResult {
	if isTerminal(board, s.depth) {
		stats.AddLeaf()
		return SearchResult{Score: Evaluate(board, aiPlayer)}
	}
	moves := ValidMoves(board)
	if len(moves) == 0 {
		stats.AddLeaf()
		return SearchResult{Score: Evaluate(board, aiPlayer)}
	}
	stats.AddNode()

	jobs := make(chan int, len(moves))
	for i := range moves {
		jobs <- i
	}
	close(jobs)

	stone := CellFromPlayer(aiPlayer)
	scores := make([]int, len(moves))
	var wg sync.WaitGroup
	for w := 0; w < min(s.workers, len(moves)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				child := board
				child.Set(moves[i].Row, moves[i].Col, stone)
				score, _, _ := s.minimax(child, s.depth-1, 1, math.MinInt, math.MaxInt, aiPlayer.Opponent(), aiPlayer, stats)
				scores[i] = score
				s.observe(moves[i], score)
			}
		}()
	}
	wg.Wait()

	// Same tie-break as the sequential root: first strictly greater score wins.
	result := SearchResult{Score: math.MinInt}
	for i, score := range scores {
		if score > result.Score {
			result.Score = score
			result.Move = moves[i]
			result.HasMove = true
		}
	}
	return result
}

func (s *Searcher) observe(move Move, score int) {
	if s.observer != nil {
		s.observer(RootCandidate{Move: move, Score: score})
	}
}

func isTerminal(board Board, depth int) bool {
	if depth <= 0 {
		return true
	}
	if _, ok := Winner(board); ok {
		return true
	}
	return IsFull(board)
}
