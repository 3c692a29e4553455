package engine

import "fmt"

// Numeric encodings for hosts that cannot see Cell directly:
// empty 0, black 1, white 2.

func EncodeCell(cell Cell) uint8 {
	switch cell {
	case CellBlack:
		return 1
	case CellWhite:
		return 2
	default:
		return 0
	}
}

func DecodeCell(value uint8) (Cell, error) {
	switch value {
	case 0:
		return CellEmpty, nil
	case 1:
		return CellBlack, nil
	case 2:
		return CellWhite, nil
	default:
		return CellEmpty, fmt.Errorf("invalid cell value %d", value)
	}
}

func EncodePlayer(player PlayerColor) uint8 {
	return EncodeCell(CellFromPlayer(player))
}

// EncodeWinner returns 0 when there is no winner.
func EncodeWinner(player PlayerColor, ok bool) uint8 {
	if !ok {
		return 0
	}
	return EncodePlayer(player)
}

// FlattenBoard lists every cell row-major.
func FlattenBoard(board Board) []uint8 {
	flat := make([]uint8, len(board.cells))
	for i, cell := range board.cells {
		flat[i] = EncodeCell(cell)
	}
	return flat
}

// BoardFromFlat is the inverse of FlattenBoard.
func BoardFromFlat(flat []uint8) (Board, error) {
	var board Board
	if len(flat) != len(board.cells) {
		return board, fmt.Errorf("flat board has %d cells, want %d", len(flat), len(board.cells))
	}
	for i, value := range flat {
		cell, err := DecodeCell(value)
		if err != nil {
			return board, fmt.Errorf("cell %d: %w", i, err)
		}
		board.cells[i] = cell
	}
	return board, nil
}
