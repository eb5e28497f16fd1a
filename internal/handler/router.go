package handler

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ugaemi/pacman-server/internal/game"
	"github.com/ugaemi/pacman-server/internal/session"
	"github.com/ugaemi/pacman-server/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	lifecycle *LifecycleHandler
	gameplay  *GameplayHandler
}

// NewRouter creates a new message router.
func NewRouter(sm *session.Manager) *Router {
	return &Router{
		lifecycle: NewLifecycleHandler(sm),
		gameplay:  NewGameplayHandler(sm),
	}
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	// Session lifecycle
	case ws.TypeCreateSession:
		r.lifecycle.HandleCreateSession(cm.Client, msg)
	case ws.TypeLeaveSession:
		r.lifecycle.HandleLeaveSession(cm.Client, msg)

	// Gameplay messages
	case ws.TypeApplyDirection:
		r.gameplay.HandleApplyDirection(cm.Client, msg)
	case ws.TypePause:
		r.gameplay.HandlePause(cm.Client, msg)
	case ws.TypeResume:
		r.gameplay.HandleResume(cm.Client, msg)
	case ws.TypeGetSnapshot:
		r.gameplay.HandleGetSnapshot(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.lifecycle.HandleDisconnect(client)
}

// sendError reports a failed command to the client.
func sendError(client *ws.Client, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		client.SendMessage(ws.NewErrorMessage("session not found"))
	case errors.Is(err, game.ErrInvalidTransition):
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	default:
		slog.Error("command failed", "client", client.ID, "error", err)
		client.SendMessage(ws.NewErrorMessage("internal error"))
	}
}
