package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/pacman-server/internal/config"
	"github.com/ugaemi/pacman-server/internal/game"
	"github.com/ugaemi/pacman-server/internal/levels"
	"github.com/ugaemi/pacman-server/internal/session"
	"github.com/ugaemi/pacman-server/internal/ws"
)

// sentMessage is a message captured from a test client.
type sentMessage struct {
	Type string
	Data json.RawMessage
}

func newTestClient(id string) (*ws.Client, chan sentMessage) {
	ch := make(chan sentMessage, 10)
	client := &ws.Client{
		ID:   id,
		Send: make(chan []byte, 256),
	}

	// Read sent messages in background
	go func() {
		for data := range client.Send {
			var msg sentMessage
			json.Unmarshal(data, &msg)
			ch <- msg
		}
	}()

	return client, ch
}

func readResponse(t *testing.T, ch chan sentMessage) sentMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for response")
		return sentMessage{}
	}
}

func expectNoResponse(t *testing.T, ch chan sentMessage) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected %s message", msg.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func errorText(t *testing.T, msg sentMessage) string {
	t.Helper()
	require.Equal(t, ws.TypeError, msg.Type)
	var e ws.ErrorMessage
	require.NoError(t, json.Unmarshal(msg.Data, &e))
	return e.Message
}

func setupRouter(t *testing.T) (*Router, *session.Manager) {
	t.Helper()
	level, err := levels.NewLoader("").LoadByID(levels.DefaultID)
	require.NoError(t, err)
	difficulties, err := config.LoadDifficulty("")
	require.NoError(t, err)

	sm := session.NewManager(session.Options{
		Layout:       level.Layout,
		Difficulties: difficulties,
	})
	t.Cleanup(sm.StopAll)
	return NewRouter(sm), sm
}

func send(router *Router, client *ws.Client, msgType string, payload any) {
	msg := ws.Message{Type: msgType}
	if payload != nil {
		msg.Data, _ = json.Marshal(payload)
	}
	data, _ := json.Marshal(msg)
	router.HandleMessage(&ws.ClientMessage{Client: client, Data: data})
}

func createSession(t *testing.T, router *Router, client *ws.Client, ch chan sentMessage) sessionCreatedResponse {
	t.Helper()
	send(router, client, ws.TypeCreateSession, createSessionRequest{PlayerName: "alice", Difficulty: "easy"})
	resp := readResponse(t, ch)
	require.Equal(t, ws.TypeSessionCreated, resp.Type)

	var created sessionCreatedResponse
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	return created
}

func readState(t *testing.T, ch chan sentMessage) game.Snapshot {
	t.Helper()
	resp := readResponse(t, ch)
	require.Equal(t, ws.TypeSessionState, resp.Type)
	var state sessionStateResponse
	require.NoError(t, json.Unmarshal(resp.Data, &state))
	return state.Session
}

func TestHandleMessage_InvalidFormat(t *testing.T) {
	router, _ := setupRouter(t)
	client, ch := newTestClient("c1")

	router.HandleMessage(&ws.ClientMessage{Client: client, Data: []byte("not json")})
	assert.Equal(t, "invalid message format", errorText(t, readResponse(t, ch)))
}

func TestHandleMessage_UnknownType(t *testing.T) {
	router, _ := setupRouter(t)
	client, ch := newTestClient("c1")

	send(router, client, "warp", nil)
	assert.Equal(t, "unknown message type: warp", errorText(t, readResponse(t, ch)))
}

func TestHandleCreateSession(t *testing.T) {
	router, sm := setupRouter(t)
	client, ch := newTestClient("c1")

	created := createSession(t, router, client, ch)
	assert.NotEmpty(t, created.SessionID)
	assert.Equal(t, created.SessionID, created.Session.ID)
	assert.Equal(t, "alice", created.Session.PlayerName)
	assert.Equal(t, "easy", created.Session.Difficulty)
	assert.Equal(t, game.StateReady, created.Session.State)
	assert.Equal(t, created.SessionID, client.SessionID())
	assert.Equal(t, 1, sm.Count())
}

func TestHandleCreateSession_ReplacesPrevious(t *testing.T) {
	router, sm := setupRouter(t)
	client, ch := newTestClient("c1")

	first := createSession(t, router, client, ch)
	second := createSession(t, router, client, ch)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Equal(t, 1, sm.Count())
	_, err := sm.Snapshot(first.SessionID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestHandleCreateSession_InvalidData(t *testing.T) {
	router, sm := setupRouter(t)
	client, ch := newTestClient("c1")

	router.HandleMessage(&ws.ClientMessage{
		Client: client,
		Data:   []byte(`{"type":"create_session","data":[1,2]}`),
	})
	assert.Equal(t, "invalid session request", errorText(t, readResponse(t, ch)))
	assert.Equal(t, 0, sm.Count())
}

func TestHandleApplyDirection(t *testing.T) {
	tests := []struct {
		name      string
		direction string
		wantErr   string
		wantState game.SessionState
	}{
		{"valid direction starts play", "left", "", game.StatePlaying},
		{"none is accepted but ignored", "none", "", game.StateReady},
		{"unknown direction", "sideways", "invalid direction: sideways", game.StateReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t)
			client, ch := newTestClient("c1")
			createSession(t, router, client, ch)

			send(router, client, ws.TypeApplyDirection, applyDirectionRequest{Direction: tt.direction})
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorText(t, readResponse(t, ch)))
			} else {
				expectNoResponse(t, ch)
			}

			send(router, client, ws.TypeGetSnapshot, nil)
			assert.Equal(t, tt.wantState, readState(t, ch).State)
		})
	}
}

func TestCommandsRequireSession(t *testing.T) {
	router, _ := setupRouter(t)

	for _, msgType := range []string{ws.TypeApplyDirection, ws.TypePause, ws.TypeResume, ws.TypeGetSnapshot, ws.TypeLeaveSession} {
		t.Run(msgType, func(t *testing.T) {
			client, ch := newTestClient("c1")
			send(router, client, msgType, applyDirectionRequest{Direction: "up"})
			assert.Equal(t, "no active session", errorText(t, readResponse(t, ch)))
		})
	}
}

func TestHandlePauseResume(t *testing.T) {
	router, _ := setupRouter(t)
	client, ch := newTestClient("c1")
	createSession(t, router, client, ch)

	send(router, client, ws.TypePause, nil)
	assert.Contains(t, errorText(t, readResponse(t, ch)), game.ErrInvalidTransition.Error())

	send(router, client, ws.TypeApplyDirection, applyDirectionRequest{Direction: "left"})
	send(router, client, ws.TypePause, nil)
	assert.Equal(t, game.StatePaused, readState(t, ch).State)

	send(router, client, ws.TypeResume, nil)
	assert.Equal(t, game.StatePlaying, readState(t, ch).State)
}

func TestHandleLeaveSession(t *testing.T) {
	router, sm := setupRouter(t)
	client, ch := newTestClient("c1")
	createSession(t, router, client, ch)

	send(router, client, ws.TypeLeaveSession, nil)
	expectNoResponse(t, ch)
	assert.Equal(t, 0, sm.Count())
	assert.Empty(t, client.SessionID())
}

func TestHandleDisconnect(t *testing.T) {
	router, sm := setupRouter(t)
	client, ch := newTestClient("c1")
	createSession(t, router, client, ch)
	idle, _ := newTestClient("c2")

	router.HandleDisconnect(idle)
	assert.Equal(t, 1, sm.Count())

	router.HandleDisconnect(client)
	assert.Equal(t, 0, sm.Count())
}

func TestSessionRemovedElsewhere(t *testing.T) {
	router, sm := setupRouter(t)
	client, ch := newTestClient("c1")
	created := createSession(t, router, client, ch)

	sm.Remove(created.SessionID)

	send(router, client, ws.TypeGetSnapshot, nil)
	assert.Equal(t, "session not found", errorText(t, readResponse(t, ch)))
}
