package main

import (
	"encoding/json"
	"net/http"

	"github.com/alfredoyang/gomoku/engine"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	Board           []int             `json:"board"`
	BoardSize       int               `json:"board_size"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Full            bool              `json:"full"`
	Status          string            `json:"status"`
	Message         string            `json:"message,omitempty"`
	AiThinking      bool              `json:"ai_thinking"`
	History         []historyEntryDTO `json:"history"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type apiMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type historyEntryDTO struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Score     int     `json:"score,omitempty"`
	Nodes     int64   `json:"nodes,omitempty"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newRouter(controller *GameController, hub *Hub, ghostHub *GhostHub) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})

		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, controllerStatus(controller))
		})

		r.Post("/start", func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				Settings GameSettingsDTO `json:"settings"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
				return
			}
			controller.StartGame(settingsFromDTO(payload.Settings, DefaultGameSettings()))
			status := controllerStatus(controller)
			writeJSON(w, http.StatusOK, status)
			hub.broadcastReset <- status
		})

		r.Post("/stop", func(w http.ResponseWriter, r *http.Request) {
			controller.Reset(controller.Settings())
			status := controllerStatus(controller)
			writeJSON(w, http.StatusOK, status)
			hub.broadcastReset <- status
		})

		r.Post("/settings", func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				Settings *GameSettingsDTO `json:"settings"`
				Config   *Config          `json:"config"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
				return
			}
			if payload.Config != nil {
				configStore.Update(*payload.Config)
			}
			if payload.Settings != nil {
				controller.UpdateSettings(settingsFromDTO(*payload.Settings, controller.Settings()), false)
			}
			hub.broadcastSettings <- settingsPayload{
				Settings: settingsToDTO(controller.Settings()),
				Config:   GetConfig(),
			}
			writeJSON(w, http.StatusOK, controllerStatus(controller))
		})

		r.Post("/move", func(w http.ResponseWriter, r *http.Request) {
			var payload apiMove
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
				return
			}
			applied, errMsg := controller.ApplyHumanMove(engine.NewMove(payload.Row, payload.Col))
			if !applied {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMsg})
				return
			}
			broadcastMove(controller, hub)
			writeJSON(w, http.StatusOK, controllerStatus(controller))
		})

		r.Get("/suggest", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, controller.Suggest())
		})
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})
	r.Get("/ws/ghost", func(w http.ResponseWriter, r *http.Request) {
		serveGhostWS(ghostHub, w, r)
	})
	return r
}

func broadcastMove(controller *GameController, hub *Hub) {
	if entry, ok := controller.LatestHistoryEntry(); ok {
		hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
	}
	hub.broadcastStatus <- controllerStatus(controller)
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &Client{send: make(chan []byte, 16)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			log.Debug().Err(err).Msg("websocket writer stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})
		case "move":
			var move apiMove
			if err := json.Unmarshal(msg.Payload, &move); err != nil {
				continue
			}
			controller.OnCellClicked(move.Row, move.Col)
		}
	}
}

func controllerStatus(controller *GameController) StatusResponse {
	snapshot := controller.Snapshot()
	flat := engine.FlattenBoard(snapshot.Board)
	board := make([]int, len(flat))
	for i, value := range flat {
		board[i] = int(value)
	}
	return StatusResponse{
		Settings:        settingsToDTO(controller.Settings()),
		Config:          GetConfig(),
		Board:           board,
		BoardSize:       engine.Size,
		NextPlayer:      int(engine.EncodePlayer(snapshot.ToMove)),
		Winner:          winnerFromStatus(snapshot.Status),
		Full:            snapshot.Full,
		Status:          snapshot.Status.String(),
		Message:         snapshot.Message,
		AiThinking:      snapshot.AiThinking,
		History:         historyToDTO(controller.History()),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		Row:       entry.Move.Row,
		Col:       entry.Move.Col,
		Player:    int(engine.EncodePlayer(entry.Player)),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Score:     entry.Score,
		Nodes:     entry.Nodes,
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
