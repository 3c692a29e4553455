package engine

import "errors"

var (
	ErrOutOfBounds  = errors.New("move out of bounds")
	ErrCellOccupied = errors.New("cell already occupied")
)

// directions holds (row, col) steps: horizontal, vertical, down-right, down-left.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Place returns a copy of board with the player's stone at (row, col).
// The side to move is not changed.
func Place(board Board, player PlayerColor, row, col int) (Board, error) {
	if !board.InBounds(row, col) {
		return board, ErrOutOfBounds
	}
	if board.At(row, col) != CellEmpty {
		return board, ErrCellOccupied
	}
	board.Set(row, col, CellFromPlayer(player))
	return board, nil
}

// Winner reports the side owning a run of WinLength stones, scanning
// occupied cells row-major and looking forward along each direction.
func Winner(board Board) (PlayerColor, bool) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			cell := board.At(row, col)
			if cell == CellEmpty {
				continue
			}
			for _, dir := range directions {
				if countForward(board, row, col, dir[0], dir[1], cell) >= WinLength {
					player, _ := PlayerFromCell(cell)
					return player, true
				}
			}
		}
	}
	return PlayerBlack, false
}

// IsFull is a structural check only; a full board may also hold a win.
func IsFull(board Board) bool {
	for _, cell := range board.cells {
		if cell == CellEmpty {
			return false
		}
	}
	return true
}

func ValidMoves(board Board) []Move {
	moves := make([]Move, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if board.At(row, col) == CellEmpty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}
	return moves
}

func countForward(board Board, row, col, dr, dc int, target Cell) int {
	count := 1
	for step := 1; step < WinLength; step++ {
		r := row + dr*step
		c := col + dc*step
		if !board.InBounds(r, c) || board.At(r, c) != target {
			break
		}
		count++
	}
	return count
}
