package main

import "github.com/alfredoyang/gomoku/engine"

type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusBlackWon
	StatusWhiteWon
	StatusDraw
	// StatusError marks a session stopped because the AI produced an illegal move.
	StatusError
)

// GameSnapshot is a copy of the live session safe to read without the controller lock.
type GameSnapshot struct {
	Board      engine.Board
	ToMove     engine.PlayerColor
	Status     GameStatus
	Full       bool
	Message    string
	AiThinking bool
}

func statusForWinner(player engine.PlayerColor) GameStatus {
	if player == engine.PlayerBlack {
		return StatusBlackWon
	}
	return StatusWhiteWon
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusBlackWon:
		return 1
	case StatusWhiteWon:
		return 2
	default:
		return 0
	}
}

func (s GameStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	case StatusError:
		return "error"
	default:
		return "running"
	}
}

func (s GameStatus) Finished() bool {
	return s != StatusNotStarted && s != StatusRunning
}
