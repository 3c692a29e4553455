package main

import (
	"time"

	"github.com/alfredoyang/gomoku/engine"
	"github.com/rs/zerolog/log"
)

// Game is one backend session: the engine facade plus players, status and history.
// It is not safe for concurrent use; GameController serializes access.
type Game struct {
	settings    GameSettings
	engine      *engine.Game
	status      GameStatus
	history     MoveHistory
	blackPlayer IPlayer
	whitePlayer IPlayer
	turnStart   time.Time
	lastMessage string
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.settings = settings
	g.engine = engine.NewGame()
	g.status = StatusNotStarted
	g.history.Clear()
	g.lastMessage = ""
	g.createPlayers()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.status == StatusNotStarted {
		g.status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) Snapshot() GameSnapshot {
	return GameSnapshot{
		Board:      g.engine.Board(),
		ToMove:     g.engine.CurrentPlayer(),
		Status:     g.status,
		Full:       g.engine.IsBoardFull(),
		Message:    g.lastMessage,
		AiThinking: g.AiThinking(),
	}
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) TryApplyMove(move engine.Move) (bool, string) {
	return g.applyMove(move, engine.SearchResult{})
}

func (g *Game) applyMove(move engine.Move, search engine.SearchResult) (bool, string) {
	if g.status != StatusRunning {
		return false, "game not running"
	}
	player := g.currentPlayer()
	isAiMove := player != nil && !player.IsHuman()
	toMove := g.engine.CurrentPlayer()
	if err := g.engine.MakeMove(move.Row, move.Col); err != nil {
		g.lastMessage = "Illegal move: " + err.Error()
		return false, g.lastMessage
	}
	if human, ok := player.(*HumanPlayer); ok {
		human.ClearPendingMove()
	}
	g.lastMessage = ""
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	entry := HistoryEntry{
		Move:      move,
		Player:    toMove,
		ElapsedMs: elapsedMs,
		IsAi:      isAiMove,
		Score:     search.Score,
		Nodes:     search.Stats.Nodes,
	}
	g.history.Push(entry)
	g.logMovePlayed(entry)

	if winner, ok := g.engine.CheckWinner(); ok {
		g.status = statusForWinner(winner)
		g.logGameOver()
		return true, ""
	}
	if g.engine.IsBoardFull() {
		g.status = StatusDraw
		g.logGameOver()
		return true, ""
	}
	g.engine.SwitchPlayer()
	g.turnStart = time.Now()
	return true, ""
}

// Tick advances the session by at most one move. It reports whether a move was applied.
func (g *Game) Tick(ghostEnabled bool, ghostSink func(ghostPayload)) bool {
	if g.status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if human, ok := player.(*HumanPlayer); ok {
		if !human.HasPendingMove() {
			return false
		}
		applied, _ := g.TryApplyMove(human.TakePendingMove())
		return applied
	}
	ai, ok := player.(*AIPlayer)
	if !ok {
		return false
	}
	if ai.HasMoveReady() {
		result := ai.TakeResult()
		move := moveOrCenter(result)
		applied, reason := g.applyMove(move, result)
		if !applied {
			g.status = StatusError
			g.lastMessage = reason
			log.Error().
				Stringer("player", g.engine.CurrentPlayer()).
				Stringer("move", move).
				Str("reason", reason).
				Msg("ai produced an illegal move")
		}
		return applied
	}
	if !ai.IsThinking() {
		var sink func(ghostPayload)
		if ghostEnabled {
			sink = ghostSink
		}
		ai.StartThinking(g.engine.Board(), g.engine.CurrentPlayer(), sink)
	}
	return false
}

func (g *Game) SubmitHumanMove(move engine.Move) bool {
	human, ok := g.currentPlayer().(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.engine.CurrentPlayer())
}

func (g *Game) playerForColor(color engine.PlayerColor) IPlayer {
	if color == engine.PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() {
	for _, player := range []IPlayer{g.blackPlayer, g.whitePlayer} {
		if ai, ok := player.(*AIPlayer); ok {
			ai.Detach()
		}
	}
	g.blackPlayer = newPlayer(g.settings.BlackType)
	g.whitePlayer = newPlayer(g.settings.WhiteType)
}

func newPlayer(playerType PlayerType) IPlayer {
	if playerType == PlayerAI {
		return NewAIPlayer()
	}
	return NewHumanPlayer()
}

func (g *Game) logMatchup() {
	log.Info().
		Stringer("black", g.settings.BlackType).
		Stringer("white", g.settings.WhiteType).
		Msg("new game")
}

func (g *Game) logMovePlayed(entry HistoryEntry) {
	event := log.Info().
		Stringer("player", entry.Player).
		Stringer("move", entry.Move).
		Float64("elapsed_ms", entry.ElapsedMs).
		Bool("ai", entry.IsAi)
	if entry.IsAi {
		event = event.Int("score", entry.Score).Int64("nodes", entry.Nodes)
	}
	event.Msg("move played")
}

func (g *Game) logGameOver() {
	log.Info().
		Stringer("status", g.status).
		Int("moves", g.history.Size()).
		Msg("game over")
}
