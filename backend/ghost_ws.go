package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/alfredoyang/gomoku/engine"
	"github.com/rs/zerolog/log"
)

type ghostCell struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Player int `json:"player"`
}

// ghostPayload streams the root candidates of a running AI search.
type ghostPayload struct {
	Mode      string     `json:"mode,omitempty"`
	Candidate *ghostCell `json:"candidate,omitempty"`
	Best      *ghostCell `json:"best,omitempty"`
	Score     int        `json:"score,omitempty"`
	BestScore int        `json:"best_score,omitempty"`
	Nodes     int64      `json:"nodes,omitempty"`
	Active    bool       `json:"active"`
	Final     bool       `json:"final,omitempty"`
}

type GhostClient struct {
	send chan []byte
}

type GhostHub struct {
	mu        sync.Mutex
	clients   map[*GhostClient]struct{}
	broadcast chan ghostPayload
}

func NewGhostHub() *GhostHub {
	return &GhostHub{
		clients:   make(map[*GhostClient]struct{}),
		broadcast: make(chan ghostPayload, 32),
	}
}

func (h *GhostHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			message := wsMessage{Type: "ghost", Payload: mustMarshal(payload)}
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(message)
			}
			h.mu.Unlock()
		}
	}
}

func (h *GhostHub) Register(c *GhostClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Publish drops the payload when the broadcast buffer is full.
func (h *GhostHub) Publish(payload ghostPayload) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *GhostHub) Unregister(c *GhostClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *GhostHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *GhostClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveGhostWS(hub *GhostHub, w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ghost websocket upgrade failed")
		return
	}
	client := &GhostClient{send: make(chan []byte, 16)}
	hub.Register(client)

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			log.Debug().Err(err).Msg("ghost websocket writer stopped")
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}

func ghostCellFromMove(move engine.Move, player int) ghostCell {
	return ghostCell{Row: move.Row, Col: move.Col, Player: player}
}
