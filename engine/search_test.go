package engine

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCompletesFiveInARow(t *testing.T) {
	board := boardWithStones(CellBlack, runOf(4, 0, 0, 0, 1)...)
	for depth := 1; depth <= DefaultDepth; depth++ {
		move := NewSearcher(WithDepth(depth)).BestMove(board, PlayerBlack)
		assert.Equal(t, Move{0, 4}, move, "depth %d", depth)
	}
}

func TestSearchBlocksOpponentFour(t *testing.T) {
	// White to move must stop black's open-ended four at (0,4).
	board := boardWithStones(CellBlack, runOf(4, 0, 0, 0, 1)...)
	board.Set(7, 7, CellWhite)

	move := NewSearcher(WithDepth(2)).BestMove(board, PlayerWhite)
	assert.Equal(t, Move{0, 4}, move)
}

func TestSearchExtendsDiagonalTriple(t *testing.T) {
	board := boardWithStones(CellBlack, Move{3, 3}, Move{4, 4}, Move{5, 5})

	move := NewSearcher().BestMove(board, PlayerBlack)
	assert.Contains(t, []Move{{2, 2}, {7, 7}}, move)
}

func TestSearchDoesNotModifyBoard(t *testing.T) {
	board := boardWithStones(CellBlack, Move{3, 3}, Move{4, 4})
	board.Set(5, 5, CellWhite)
	before := board

	NewSearcher(WithDepth(2)).Search(board, PlayerBlack)
	assert.Equal(t, before, board)
}

func TestSearchOnFullBoardFallsBackToCenter(t *testing.T) {
	s := NewSearcher()
	result := s.Search(filledBoard(), PlayerBlack)
	assert.False(t, result.HasMove)
	assert.Equal(t, Evaluate(filledBoard(), PlayerBlack), result.Score)
	assert.Equal(t, CenterMove(), s.BestMove(filledBoard(), PlayerBlack))
	assert.Equal(t, Move{7, 7}, CenterMove())
}

func TestSearchOnWonBoardReturnsNoMove(t *testing.T) {
	board := boardWithStones(CellWhite, runOf(WinLength, 2, 2, 1, 0)...)
	result := NewSearcher().Search(board, PlayerBlack)
	assert.False(t, result.HasMove)
	assert.Equal(t, Evaluate(board, PlayerBlack), result.Score)
}

func TestSearchIsDeterministic(t *testing.T) {
	board := boardWithStones(CellWhite, Move{7, 7}, Move{7, 8})
	board.Set(6, 7, CellBlack)

	s := NewSearcher(WithDepth(2))
	first := s.Search(board, PlayerBlack)
	second := s.Search(board, PlayerBlack)
	assert.Equal(t, first.Move, second.Move)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Stats.Nodes, second.Stats.Nodes)
}

func TestRootWorkersMatchSequentialSearch(t *testing.T) {
	positions := map[string]Board{
		"diagonal triple": boardWithStones(CellBlack, Move{3, 3}, Move{4, 4}, Move{5, 5}),
		"four in a row":   boardWithStones(CellBlack, runOf(4, 0, 0, 0, 1)...),
		"mixed": func() Board {
			b := boardWithStones(CellWhite, Move{7, 7}, Move{8, 8}, Move{9, 9})
			b.Set(7, 8, CellBlack)
			b.Set(6, 6, CellBlack)
			return b
		}(),
	}
	for name, board := range positions {
		t.Run(name, func(t *testing.T) {
			for _, player := range []PlayerColor{PlayerBlack, PlayerWhite} {
				sequential := NewSearcher(WithDepth(2)).Search(board, player)
				parallel := NewSearcher(WithDepth(2), WithRootWorkers(4)).Search(board, player)
				require.True(t, parallel.HasMove)
				assert.Equal(t, sequential.Move, parallel.Move, "player %s", player)
				assert.Equal(t, sequential.Score, parallel.Score, "player %s", player)
				assert.Equal(t, 4, parallel.Stats.Workers)
			}
		})
	}
}

func TestRootObserverSeesEveryRootChild(t *testing.T) {
	board := boardWithStones(CellBlack, Move{3, 3}, Move{4, 4}, Move{5, 5})
	expected := int64(len(ValidMoves(board)))

	for _, workers := range []int{1, 3} {
		var calls atomic.Int64
		s := NewSearcher(
			WithDepth(1),
			WithRootWorkers(workers),
			WithRootObserver(func(c RootCandidate) {
				assert.True(t, c.Move.IsValid())
				calls.Add(1)
			}),
		)
		s.Search(board, PlayerWhite)
		assert.Equal(t, expected, calls.Load(), "workers %d", workers)
	}
}

func TestSearchStatsAreCollected(t *testing.T) {
	board := boardWithStones(CellBlack, Move{7, 7})
	result := NewSearcher(WithDepth(2)).Search(board, PlayerWhite)

	assert.Equal(t, 2, result.Stats.Depth)
	assert.Equal(t, 1, result.Stats.Workers)
	assert.Positive(t, result.Stats.Nodes)
	assert.Positive(t, result.Stats.Leaves)
	assert.Positive(t, result.Stats.Cutoffs)
	assert.GreaterOrEqual(t, result.Stats.Leaves, int64(len(ValidMoves(board))))
}

func TestSearchLogsSummaryAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	board := boardWithStones(CellBlack, runOf(4, 0, 0, 0, 1)...)

	NewSearcher(WithDepth(1), WithLogger(logger)).Search(board, PlayerBlack)
	out := buf.String()
	assert.Contains(t, out, `"message":"search complete"`)
	assert.Contains(t, out, `"move":"(0, 4)"`)
	assert.Contains(t, out, `"nodes":`)
}

func TestSearcherOptionDefaults(t *testing.T) {
	s := NewSearcher(WithDepth(0), WithRootWorkers(-2))
	assert.Equal(t, DefaultDepth, s.Depth())
	assert.Equal(t, 1, s.Workers())

	s = NewSearcher(WithDepth(5), WithRootWorkers(8))
	assert.Equal(t, 5, s.Depth())
	assert.Equal(t, 8, s.Workers())
}
