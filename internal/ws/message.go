package ws

import "encoding/json"

// Message represents a WebSocket message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types - Session control
const (
	TypeCreateSession  = "create_session"
	TypeApplyDirection = "apply_direction"
	TypePause          = "pause"
	TypeResume         = "resume"
	TypeGetSnapshot    = "get_snapshot"
	TypeLeaveSession   = "leave_session"
)

// Message types - Session updates
const (
	TypeSessionCreated = "session_created"
	TypeSessionState   = "session_state"
	TypeSessionOver    = "session_over"
)

// Message types - System
const (
	TypeError          = "error"
	TypeServerShutdown = "server_shutdown"
)

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Message string `json:"message"`
}

// ShutdownMessage tells clients the server is going away.
type ShutdownMessage struct {
	Reason string `json:"reason"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg})
	return Message{Type: TypeError, Data: data}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}
