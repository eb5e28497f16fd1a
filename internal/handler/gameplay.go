package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/pacman-server/internal/game"
	"github.com/ugaemi/pacman-server/internal/session"
	"github.com/ugaemi/pacman-server/internal/ws"
)

// GameplayHandler handles in-game messages.
type GameplayHandler struct {
	sm *session.Manager
}

// NewGameplayHandler creates a new gameplay handler.
func NewGameplayHandler(sm *session.Manager) *GameplayHandler {
	return &GameplayHandler{sm: sm}
}

type applyDirectionRequest struct {
	Direction string `json:"direction"`
}

type sessionStateResponse struct {
	Session game.Snapshot `json:"session"`
}

// HandleApplyDirection queues a direction for the client's Pac-Man.
// Unknown directions are rejected without touching the session.
func (h *GameplayHandler) HandleApplyDirection(client *ws.Client, msg ws.Message) {
	var req applyDirectionRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid direction data"))
		return
	}
	d, ok := game.ParseDirection(req.Direction)
	if !ok {
		client.SendMessage(ws.NewErrorMessage("invalid direction: " + req.Direction))
		return
	}

	id, ok := h.sessionOf(client)
	if !ok {
		return
	}
	if err := h.sm.ApplyDirection(id, d); err != nil {
		sendError(client, err)
		return
	}
	slog.Debug("direction applied", "session", id, "direction", d)
}

// HandlePause pauses the client's session.
func (h *GameplayHandler) HandlePause(client *ws.Client, _ ws.Message) {
	id, ok := h.sessionOf(client)
	if !ok {
		return
	}
	if err := h.sm.Pause(id); err != nil {
		sendError(client, err)
		return
	}
	h.sendState(client, id)
}

// HandleResume resumes the client's session.
func (h *GameplayHandler) HandleResume(client *ws.Client, _ ws.Message) {
	id, ok := h.sessionOf(client)
	if !ok {
		return
	}
	if err := h.sm.Resume(id); err != nil {
		sendError(client, err)
		return
	}
	h.sendState(client, id)
}

// HandleGetSnapshot sends the current session state.
func (h *GameplayHandler) HandleGetSnapshot(client *ws.Client, _ ws.Message) {
	id, ok := h.sessionOf(client)
	if !ok {
		return
	}
	h.sendState(client, id)
}

func (h *GameplayHandler) sendState(client *ws.Client, id string) {
	snap, err := h.sm.Snapshot(id)
	if err != nil {
		sendError(client, err)
		return
	}
	resp, _ := ws.NewMessage(ws.TypeSessionState, sessionStateResponse{Session: snap})
	client.SendMessage(resp)
}

func (h *GameplayHandler) sessionOf(client *ws.Client) (string, bool) {
	id := client.SessionID()
	if id == "" {
		client.SendMessage(ws.NewErrorMessage("no active session"))
		return "", false
	}
	return id, true
}
