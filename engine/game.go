package engine

// Game owns the live board and the side to move. Placing a stone never
// changes the side to move; callers switch explicitly.
type Game struct {
	board    Board
	current  PlayerColor
	searcher *Searcher
}

// NewGame starts an empty board with StartingPlayer to move. The options
// configure the searcher used by AIMove.
func NewGame(options ...Option) *Game {
	return &Game{
		board:    NewBoard(),
		current:  StartingPlayer,
		searcher: NewSearcher(options...),
	}
}

func (g *Game) MakeMove(row, col int) error {
	board, err := Place(g.board, g.current, row, col)
	if err != nil {
		return err
	}
	g.board = board
	return nil
}

func (g *Game) SwitchPlayer() {
	g.current = g.current.Opponent()
}

func (g *Game) CurrentPlayer() PlayerColor {
	return g.current
}

func (g *Game) CheckWinner() (PlayerColor, bool) {
	return Winner(g.board)
}

func (g *Game) IsBoardFull() bool {
	return IsFull(g.board)
}

// AIMove recommends a move for the current player. The stone is not placed.
func (g *Game) AIMove() Move {
	return g.searcher.BestMove(g.board, g.current)
}

// Analyze is AIMove with the full search result.
func (g *Game) Analyze() SearchResult {
	return g.searcher.Search(g.board, g.current)
}

func (g *Game) Board() Board {
	return g.board
}

func (g *Game) FlatBoard() []uint8 {
	return FlattenBoard(g.board)
}

func (g *Game) Searcher() *Searcher {
	return g.searcher
}

func (g *Game) SetSearcher(s *Searcher) {
	if s != nil {
		g.searcher = s
	}
}
