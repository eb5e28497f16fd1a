package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/pacman-server/internal/game"
	"github.com/ugaemi/pacman-server/internal/session"
	"github.com/ugaemi/pacman-server/internal/ws"
)

// LifecycleHandler creates and tears down sessions.
type LifecycleHandler struct {
	sm *session.Manager
}

// NewLifecycleHandler creates a new lifecycle handler.
func NewLifecycleHandler(sm *session.Manager) *LifecycleHandler {
	return &LifecycleHandler{sm: sm}
}

type createSessionRequest struct {
	PlayerName string `json:"player_name"`
	Difficulty string `json:"difficulty"`
}

type sessionCreatedResponse struct {
	SessionID string        `json:"session_id"`
	Session   game.Snapshot `json:"session"`
}

// HandleCreateSession starts a session for the client. A session the
// client already plays is removed first.
func (h *LifecycleHandler) HandleCreateSession(client *ws.Client, msg ws.Message) {
	var req createSessionRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			client.SendMessage(ws.NewErrorMessage("invalid session request"))
			return
		}
	}

	if old := client.SessionID(); old != "" {
		h.sm.Remove(old)
		client.SetSessionID("")
	}

	r, err := h.sm.Create(req.PlayerName, req.Difficulty)
	if err != nil {
		sendError(client, err)
		return
	}
	r.Attach(client)
	client.SetSessionID(r.ID)

	resp, _ := ws.NewMessage(ws.TypeSessionCreated, sessionCreatedResponse{
		SessionID: r.ID,
		Session:   r.Snapshot(),
	})
	client.SendMessage(resp)

	r.Start()
	slog.Info("client started session", "client", client.ID, "session", r.ID)
}

// HandleLeaveSession ends the client's session.
func (h *LifecycleHandler) HandleLeaveSession(client *ws.Client, _ ws.Message) {
	id := client.SessionID()
	if id == "" {
		client.SendMessage(ws.NewErrorMessage("no active session"))
		return
	}
	h.sm.Remove(id)
	client.SetSessionID("")
	slog.Info("client left session", "client", client.ID, "session", id)
}

// HandleDisconnect removes the session of a departed client.
func (h *LifecycleHandler) HandleDisconnect(client *ws.Client) {
	if id := client.SessionID(); id != "" {
		h.sm.Remove(id)
		client.SetSessionID("")
	}
}
