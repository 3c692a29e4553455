package main

import "github.com/alfredoyang/gomoku/engine"

// HumanPlayer buffers a move submitted over the websocket until the next tick.
type HumanPlayer struct {
	pending     bool
	pendingMove engine.Move
}

func NewHumanPlayer() *HumanPlayer {
	return &HumanPlayer{}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}

func (h *HumanPlayer) SetPendingMove(move engine.Move) {
	h.pendingMove = move
	h.pending = true
}

func (h *HumanPlayer) HasPendingMove() bool {
	return h.pending
}

func (h *HumanPlayer) TakePendingMove() engine.Move {
	h.pending = false
	return h.pendingMove
}

func (h *HumanPlayer) ClearPendingMove() {
	h.pending = false
	h.pendingMove = engine.Move{}
}
