package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(TypeSessionState, map[string]int{"level": 2})
	require.NoError(t, err)
	assert.Equal(t, TypeSessionState, msg.Type)
	assert.JSONEq(t, `{"level":2}`, string(msg.Data))
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage("session not found")
	assert.Equal(t, TypeError, msg.Type)

	var payload ErrorMessage
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, "session not found", payload.Message)
}

func TestClient_SendMessage(t *testing.T) {
	c := &Client{ID: "c1", Send: make(chan []byte, 1)}

	c.SendMessage(NewErrorMessage("first"))
	c.SendMessage(NewErrorMessage("dropped, buffer full"))
	require.Len(t, c.Send, 1)

	var msg Message
	require.NoError(t, json.Unmarshal(<-c.Send, &msg))
	assert.Equal(t, TypeError, msg.Type)
}

func TestClient_SendAfterClose(t *testing.T) {
	c := &Client{ID: "c1", Send: make(chan []byte, 1)}
	c.closeSend()
	c.closeSend()

	assert.NotPanics(t, func() {
		c.SendMessage(NewErrorMessage("late"))
	})
}

func TestClient_SessionID(t *testing.T) {
	c := &Client{ID: "c1"}
	assert.Empty(t, c.SessionID())

	c.SetSessionID("abc")
	assert.Equal(t, "abc", c.SessionID())

	c.SetSessionID("")
	assert.Empty(t, c.SessionID())
}

func TestHub_Broadcast(t *testing.T) {
	h := NewHub()
	open := &Client{ID: "open", Send: make(chan []byte, 1)}
	closed := &Client{ID: "closed", Send: make(chan []byte, 1)}
	closed.closeSend()
	h.Clients[open] = true
	h.Clients[closed] = true

	assert.NotPanics(t, func() {
		h.Broadcast([]byte(`{"type":"error"}`))
	})
	assert.Len(t, open.Send, 1)
	assert.Equal(t, 2, h.ClientCount())
}

func TestHub_NotifyShutdown(t *testing.T) {
	h := NewHub()
	a := &Client{ID: "a", Send: make(chan []byte, 1)}
	b := &Client{ID: "b", Send: make(chan []byte, 1)}
	h.Clients[a] = true
	h.Clients[b] = true

	err := h.Notify(TypeServerShutdown, ShutdownMessage{Reason: "server shutting down"})
	require.NoError(t, err)

	for _, c := range []*Client{a, b} {
		require.Len(t, c.Send, 1, c.ID)
		var msg Message
		require.NoError(t, json.Unmarshal(<-c.Send, &msg))
		assert.Equal(t, TypeServerShutdown, msg.Type)
		var payload ShutdownMessage
		require.NoError(t, json.Unmarshal(msg.Data, &payload))
		assert.Equal(t, "server shutting down", payload.Reason)
	}
}
