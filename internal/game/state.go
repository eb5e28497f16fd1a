package game

import "encoding/json"

// SessionState is the lifecycle state of a game session.
type SessionState int

const (
	StateReady SessionState = iota
	StatePlaying
	StatePaused
	StateGameOver
	StateLevelComplete
)

func (s SessionState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	case StateLevelComplete:
		return "level_complete"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has stopped for good at this level.
func (s SessionState) Terminal() bool {
	return s == StateGameOver || s == StateLevelComplete
}

// MarshalJSON serializes SessionState as a string.
func (s SessionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes SessionState from a string.
func (s *SessionState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "playing":
		*s = StatePlaying
	case "paused":
		*s = StatePaused
	case "game_over":
		*s = StateGameOver
	case "level_complete":
		*s = StateLevelComplete
	default:
		*s = StateReady
	}
	return nil
}
