package engine

import (
	"fmt"
	"strings"
)

const (
	Size      = 15
	WinLength = 5
)

type Cell uint8

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

type PlayerColor uint8

const (
	PlayerBlack PlayerColor = iota
	PlayerWhite
)

// StartingPlayer moves first in every new game.
const StartingPlayer = PlayerBlack

// Board is a value type: assigning or passing a Board copies every cell.
type Board struct {
	cells [Size * Size]Cell
}

func NewBoard() Board {
	return Board{}
}

func (b Board) At(row, col int) Cell {
	return b.cells[index(row, col)]
}

func (b *Board) Set(row, col int, value Cell) {
	b.cells[index(row, col)] = value
}

func (b Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < Size && col < Size
}

func (b Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.At(row, col) == CellEmpty
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) Clone() Board {
	return b
}

// String renders the board the way the console shows it: a column header,
// then one line per row with '.', 'X' (black) and 'O' (white).
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for col := 0; col < Size; col++ {
		fmt.Fprintf(&sb, "%2d ", col)
	}
	sb.WriteString("\n")
	for row := 0; row < Size; row++ {
		fmt.Fprintf(&sb, "%2d ", row)
		for col := 0; col < Size; col++ {
			sb.WriteString(b.At(row, col).Symbol())
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func index(row, col int) int {
	return row*Size + col
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

func (c Cell) Symbol() string {
	switch c {
	case CellBlack:
		return "X"
	case CellWhite:
		return "O"
	default:
		return "."
	}
}

func (p PlayerColor) String() string {
	if p == PlayerBlack {
		return "Black"
	}
	return "White"
}

func (p PlayerColor) Symbol() string {
	return CellFromPlayer(p).Symbol()
}

func (p PlayerColor) Opponent() PlayerColor {
	if p == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerBlack {
		return CellBlack
	}
	return CellWhite
}

func PlayerFromCell(cell Cell) (PlayerColor, error) {
	switch cell {
	case CellBlack:
		return PlayerBlack, nil
	case CellWhite:
		return PlayerWhite, nil
	default:
		return PlayerBlack, fmt.Errorf("empty cell has no player")
	}
}
