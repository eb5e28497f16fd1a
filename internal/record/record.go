// Package record holds the persistent form of a finished or checkpointed
// session. It is kept apart from the simulation state in package game.
package record

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ugaemi/pacman-server/internal/game"
)

// Game statuses as stored.
const (
	StatusPlaying       = "playing"
	StatusLevelComplete = "level_complete"
	StatusGameOver      = "game_over"
)

// Game is one row of the games table. ID is the session ID, so saving the
// same session again updates the row.
type Game struct {
	ID          string     `json:"id"`
	PlayerName  string     `json:"player_name"`
	Difficulty  string     `json:"difficulty"`
	MazeID      string     `json:"maze_id"`
	Status      string     `json:"status"`
	Level       int        `json:"level"`
	Score       int        `json:"score"`
	Lives       int        `json:"lives"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Statistic Statistic    `json:"statistic"`
	HighScore *HighScore   `json:"high_score,omitempty"`
	Events    []ScoreEvent `json:"events,omitempty"`
	StateData []byte       `json:"-"`
}

// Statistic summarises a session.
type Statistic struct {
	GameID            string `json:"game_id"`
	FinalScore        int    `json:"final_score"`
	LevelReached      int    `json:"level_reached"`
	DurationSeconds   int    `json:"duration_seconds"`
	DotsEaten         int    `json:"dots_eaten"`
	PowerPelletsEaten int    `json:"power_pellets_eaten"`
	GhostsEaten       int    `json:"ghosts_eaten"`
	FruitsEaten       int    `json:"fruits_eaten"`
}

// HighScore is a leaderboard entry. Only finished games produce one.
type HighScore struct {
	GameID     string    `json:"game_id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	Level      int       `json:"level"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScoreEvent is one points-awarding event.
type ScoreEvent struct {
	GameID     string    `json:"game_id"`
	Seq        int       `json:"seq"`
	Kind       string    `json:"kind"`
	Points     int       `json:"points"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	Ghost      string    `json:"ghost,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromSnapshot builds the record of a session from its snapshot.
func FromSnapshot(snap game.Snapshot) (*Game, error) {
	state, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot %s: %w", snap.ID, err)
	}

	g := &Game{
		ID:         snap.ID,
		PlayerName: snap.PlayerName,
		Difficulty: snap.Difficulty,
		MazeID:     snap.MazeID,
		Status:     statusOf(snap.State),
		Level:      snap.Level,
		Score:      snap.Score.Points,
		Lives:      snap.Pacman.Lives,
		CreatedAt:  snap.CreatedAt,
		UpdatedAt:  snap.UpdatedAt,
		Statistic: Statistic{
			GameID:            snap.ID,
			FinalScore:        snap.Score.Points,
			LevelReached:      snap.Level,
			DurationSeconds:   int(snap.ElapsedSeconds),
			DotsEaten:         snap.Score.Dots,
			PowerPelletsEaten: snap.Score.PowerPellets,
			GhostsEaten:       snap.Score.Ghosts,
			FruitsEaten:       snap.Score.Fruits,
		},
		StateData: state,
	}

	if snap.State == game.StateGameOver {
		completed := snap.UpdatedAt
		g.CompletedAt = &completed
		g.HighScore = &HighScore{
			GameID:     snap.ID,
			PlayerName: snap.PlayerName,
			Score:      snap.Score.Points,
			Level:      snap.Level,
			Difficulty: snap.Difficulty,
			CreatedAt:  completed,
		}
	}

	for _, e := range snap.History {
		if !e.Scoring() {
			continue
		}
		g.Events = append(g.Events, ScoreEvent{
			GameID:     snap.ID,
			Seq:        len(g.Events) + 1,
			Kind:       string(e.Kind),
			Points:     e.Points,
			X:          e.Cell.X,
			Y:          e.Cell.Y,
			Ghost:      e.Ghost,
			OccurredAt: snap.CreatedAt.Add(e.At),
		})
	}
	return g, nil
}

func statusOf(s game.SessionState) string {
	switch s {
	case game.StateGameOver:
		return StatusGameOver
	case game.StateLevelComplete:
		return StatusLevelComplete
	default:
		return StatusPlaying
	}
}
