package engine

const (
	scoreFive      = 100000
	scoreFour      = 1000
	scoreOpenThree = 100
	scoreOpenTwo   = 10
)

// Evaluate scores the board from perspective's point of view. Every
// occupied cell is treated as a run origin in every direction, so stones
// inside a run are counted once per origin: three open stones on a line
// score 3*scoreOpenThree.
func Evaluate(board Board, perspective PlayerColor) int {
	score := 0
	own := CellFromPlayer(perspective)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			cell := board.At(row, col)
			if cell == CellEmpty {
				continue
			}
			sign := -1
			if cell == own {
				sign = 1
			}
			for _, dir := range directions {
				forward, forwardOpen := scanRun(board, row, col, dir[0], dir[1], cell)
				backward, backwardOpen := scanRun(board, row, col, -dir[0], -dir[1], cell)
				score += sign * runScore(1+forward+backward, forwardOpen+backwardOpen)
			}
		}
	}
	return score
}

// scanRun walks up to WinLength-1 steps from (row, col), returning the
// number of matching stones and 1 if the cell that stopped the walk is empty.
func scanRun(board Board, row, col, dr, dc int, target Cell) (int, int) {
	count := 0
	for step := 1; step < WinLength; step++ {
		r := row + dr*step
		c := col + dc*step
		if !board.InBounds(r, c) {
			break
		}
		cell := board.At(r, c)
		if cell == CellEmpty {
			return count, 1
		}
		if cell != target {
			break
		}
		count++
	}
	return count, 0
}

func runScore(count, openEnds int) int {
	switch {
	case count >= WinLength:
		return scoreFive
	case count == 4 && openEnds >= 1:
		return scoreFour
	case count == 3 && openEnds == 2:
		return scoreOpenThree
	case count == 2 && openEnds == 2:
		return scoreOpenTwo
	}
	return 0
}
