package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/pacman-server/internal/game"
)

func testSnapshot(state game.SessionState) game.Snapshot {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return game.Snapshot{
		ID:             "sess-1",
		PlayerName:     "tester",
		Difficulty:     "hard",
		State:          state,
		Level:          2,
		MazeID:         "classic",
		Pacman:         game.Pacman{Lives: 1},
		Score:          game.Score{Points: 1460, Dots: 100, PowerPellets: 2, Ghosts: 3, Fruits: 1, Combo: 1, Bonus: 100},
		ElapsedSeconds: 95.7,
		CreatedAt:      created,
		UpdatedAt:      created.Add(95700 * time.Millisecond),
		History: []game.Event{
			{Kind: game.EventDot, Points: 10, Cell: game.Cell{X: 8, Y: 15}, At: time.Second},
			{Kind: game.EventPowerEnd, At: 9 * time.Second},
			{Kind: game.EventGhost, Points: 200, Cell: game.Cell{X: 4, Y: 3}, Ghost: "shy", At: 10 * time.Second},
			{Kind: game.EventDeath, Cell: game.Cell{X: 4, Y: 3}, At: 20 * time.Second},
		},
	}
}

func TestFromSnapshot_GameOver(t *testing.T) {
	snap := testSnapshot(game.StateGameOver)

	g, err := FromSnapshot(snap)
	require.NoError(t, err)

	assert.Equal(t, "sess-1", g.ID)
	assert.Equal(t, StatusGameOver, g.Status)
	assert.Equal(t, 1460, g.Score)
	require.NotNil(t, g.CompletedAt)
	assert.Equal(t, snap.UpdatedAt, *g.CompletedAt)

	assert.Equal(t, Statistic{
		GameID:            "sess-1",
		FinalScore:        1460,
		LevelReached:      2,
		DurationSeconds:   95,
		DotsEaten:         100,
		PowerPelletsEaten: 2,
		GhostsEaten:       3,
		FruitsEaten:       1,
	}, g.Statistic)

	require.NotNil(t, g.HighScore)
	assert.Equal(t, 1460, g.HighScore.Score)
	assert.Equal(t, "hard", g.HighScore.Difficulty)

	require.Len(t, g.Events, 2, "only scoring events are kept")
	assert.Equal(t, ScoreEvent{
		GameID: "sess-1", Seq: 2, Kind: "ghost", Points: 200, X: 4, Y: 3, Ghost: "shy",
		OccurredAt: snap.CreatedAt.Add(10 * time.Second),
	}, g.Events[1])

	var decoded game.Snapshot
	require.NoError(t, json.Unmarshal(g.StateData, &decoded))
	assert.Equal(t, snap.Score, decoded.Score)
}

func TestFromSnapshot_LevelComplete(t *testing.T) {
	g, err := FromSnapshot(testSnapshot(game.StateLevelComplete))
	require.NoError(t, err)

	assert.Equal(t, StatusLevelComplete, g.Status)
	assert.Nil(t, g.HighScore, "checkpoints do not reach the leaderboard")
	assert.Nil(t, g.CompletedAt)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		state game.SessionState
		want  string
	}{
		{game.StateReady, StatusPlaying},
		{game.StatePlaying, StatusPlaying},
		{game.StatePaused, StatusPlaying},
		{game.StateLevelComplete, StatusLevelComplete},
		{game.StateGameOver, StatusGameOver},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusOf(tt.state))
		})
	}
}
