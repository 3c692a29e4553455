package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWithStones(cell Cell, moves ...Move) Board {
	board := NewBoard()
	for _, m := range moves {
		board.Set(m.Row, m.Col, cell)
	}
	return board
}

func runOf(length, row, col, dr, dc int) []Move {
	moves := make([]Move, 0, length)
	for i := 0; i < length; i++ {
		moves = append(moves, Move{Row: row + dr*i, Col: col + dc*i})
	}
	return moves
}

// filledBoard fills every cell with alternating colours row by row.
func filledBoard() Board {
	board := NewBoard()
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			cell := CellBlack
			if (row/2+col)%2 == 1 {
				cell = CellWhite
			}
			board.Set(row, col, cell)
		}
	}
	return board
}

func TestPlaceRejectsOutOfBounds(t *testing.T) {
	board := NewBoard()
	for _, m := range []Move{{Size, Size}, {Size, 0}, {0, Size}, {-1, 3}, {3, -1}, {Size + 7, 2}} {
		got, err := Place(board, PlayerBlack, m.Row, m.Col)
		require.ErrorIs(t, err, ErrOutOfBounds, "move %v", m)
		assert.Equal(t, board, got)
	}
}

func TestPlaceRejectsOccupiedCell(t *testing.T) {
	board, err := Place(NewBoard(), PlayerBlack, 7, 7)
	require.NoError(t, err)

	got, err := Place(board, PlayerWhite, 7, 7)
	require.ErrorIs(t, err, ErrCellOccupied)
	assert.Equal(t, CellBlack, got.At(7, 7))
	assert.Equal(t, board, got)
}

func TestPlaceLeavesInputBoardUntouched(t *testing.T) {
	board := NewBoard()
	placed, err := Place(board, PlayerWhite, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, CellWhite, placed.At(3, 4))
	assert.Equal(t, CellEmpty, board.At(3, 4))
	assert.Equal(t, Size*Size-1, placed.CountEmpty())
}

func TestWinnerDetectsRunsInEveryDirection(t *testing.T) {
	cases := []struct {
		name           string
		row, col       int
		dr, dc         int
		expectedPlayer PlayerColor
	}{
		{name: "horizontal", row: 0, col: 0, dr: 0, dc: 1, expectedPlayer: PlayerBlack},
		{name: "vertical", row: 0, col: 0, dr: 1, dc: 0, expectedPlayer: PlayerWhite},
		{name: "diagonal", row: 0, col: 0, dr: 1, dc: 1, expectedPlayer: PlayerBlack},
		{name: "counter diagonal", row: 0, col: WinLength - 1, dr: 1, dc: -1, expectedPlayer: PlayerWhite},
		{name: "horizontal at right edge", row: 14, col: Size - WinLength, dr: 0, dc: 1, expectedPlayer: PlayerWhite},
		{name: "counter diagonal at bottom left", row: Size - WinLength, col: WinLength - 1, dr: 1, dc: -1, expectedPlayer: PlayerBlack},
		{name: "diagonal in the middle", row: 5, col: 6, dr: 1, dc: 1, expectedPlayer: PlayerWhite},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cell := CellFromPlayer(tc.expectedPlayer)
			board := boardWithStones(cell, runOf(WinLength, tc.row, tc.col, tc.dr, tc.dc)...)
			winner, ok := Winner(board)
			require.True(t, ok)
			assert.Equal(t, tc.expectedPlayer, winner)
		})
	}
}

func TestWinnerIndependentOfRunPosition(t *testing.T) {
	// Slide the same horizontal run along row 7; every anchor must report the same winner.
	for start := 0; start+WinLength <= Size; start++ {
		board := boardWithStones(CellWhite, runOf(WinLength, 7, start, 0, 1)...)
		winner, ok := Winner(board)
		require.True(t, ok, "start %d", start)
		assert.Equal(t, PlayerWhite, winner, "start %d", start)
	}
}

func TestWinnerIgnoresShortAndBrokenRuns(t *testing.T) {
	board := boardWithStones(CellBlack, runOf(WinLength-1, 2, 2, 0, 1)...)
	_, ok := Winner(board)
	assert.False(t, ok)

	// X X . X X X across the row is not five in a row.
	board = boardWithStones(CellBlack, Move{4, 0}, Move{4, 1}, Move{4, 3}, Move{4, 4}, Move{4, 5})
	_, ok = Winner(board)
	assert.False(t, ok)

	// Mixed colours break a run.
	board = boardWithStones(CellBlack, runOf(WinLength, 9, 0, 0, 1)...)
	board.Set(9, 2, CellWhite)
	_, ok = Winner(board)
	assert.False(t, ok)
}

func TestWinnerAcceptsLongerRuns(t *testing.T) {
	board := boardWithStones(CellBlack, runOf(WinLength+2, 3, 0, 0, 1)...)
	winner, ok := Winner(board)
	require.True(t, ok)
	assert.Equal(t, PlayerBlack, winner)
}

func TestIsFull(t *testing.T) {
	assert.False(t, IsFull(NewBoard()))

	board := filledBoard()
	assert.True(t, IsFull(board))

	board.Set(14, 14, CellEmpty)
	assert.False(t, IsFull(board))
	assert.Equal(t, 1, board.CountEmpty())
}

func TestIsFullWithOneHoleIgnoresWins(t *testing.T) {
	board := NewBoard()
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			board.Set(row, col, CellBlack)
		}
	}
	board.Set(0, 0, CellEmpty)
	_, won := Winner(board)
	require.True(t, won)
	assert.False(t, IsFull(board))
}

func TestValidMovesRowMajor(t *testing.T) {
	moves := ValidMoves(NewBoard())
	require.Len(t, moves, Size*Size)
	assert.Equal(t, Move{0, 0}, moves[0])
	assert.Equal(t, Move{0, 1}, moves[1])
	assert.Equal(t, Move{1, 0}, moves[Size])
	assert.Equal(t, Move{Size - 1, Size - 1}, moves[len(moves)-1])

	board := boardWithStones(CellWhite, Move{0, 0}, Move{7, 7})
	moves = ValidMoves(board)
	require.Len(t, moves, Size*Size-2)
	assert.Equal(t, Move{0, 1}, moves[0])
	assert.NotContains(t, moves, Move{7, 7})

	assert.Empty(t, ValidMoves(filledBoard()))
}
