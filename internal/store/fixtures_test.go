package store

import (
	"fmt"
	"time"

	"github.com/ugaemi/pacman-server/internal/record"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testGame(id string, score int, over bool) *record.Game {
	g := &record.Game{
		ID:         id,
		PlayerName: "player-" + id,
		Difficulty: "normal",
		MazeID:     "classic",
		Status:     record.StatusLevelComplete,
		Level:      1,
		Score:      score,
		Lives:      2,
		CreatedAt:  baseTime,
		UpdatedAt:  baseTime.Add(90 * time.Second),
		Statistic: record.Statistic{
			GameID:          id,
			FinalScore:      score,
			LevelReached:    1,
			DurationSeconds: 90,
			DotsEaten:       score / 10,
		},
		StateData: []byte(fmt.Sprintf(`{"id":%q}`, id)),
		Events: []record.ScoreEvent{
			{GameID: id, Seq: 1, Kind: "dot", Points: 10, X: 8, Y: 15, OccurredAt: baseTime.Add(time.Second)},
			{GameID: id, Seq: 2, Kind: "ghost", Points: 200, X: 3, Y: 3, Ghost: "shy", OccurredAt: baseTime.Add(2 * time.Second)},
		},
	}
	if over {
		completed := g.UpdatedAt
		g.Status = record.StatusGameOver
		g.Lives = 0
		g.CompletedAt = &completed
		g.HighScore = &record.HighScore{
			GameID:     id,
			PlayerName: g.PlayerName,
			Score:      score,
			Level:      1,
			Difficulty: "normal",
			CreatedAt:  completed,
		}
	}
	return g
}
