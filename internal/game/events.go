package game

import "time"

// EventKind names something that happened during a tick.
type EventKind string

const (
	EventDot           EventKind = "dot"
	EventPowerPellet   EventKind = "power_pellet"
	EventGhost         EventKind = "ghost"
	EventFruit         EventKind = "fruit"
	EventPowerEnd      EventKind = "power_end"
	EventDeath         EventKind = "death"
	EventLevelComplete EventKind = "level_complete"
	EventGameOver      EventKind = "game_over"
)

// Event records a scoring or lifecycle change. At is the session clock.
type Event struct {
	Kind   EventKind     `json:"kind"`
	Points int           `json:"points,omitempty"`
	Cell   Cell          `json:"cell"`
	Ghost  string        `json:"ghost,omitempty"`
	At     time.Duration `json:"at"`
}

// Scoring reports whether the event awarded points.
func (e Event) Scoring() bool {
	return e.Points > 0
}
