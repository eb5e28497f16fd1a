package game

import (
	"slices"
	"time"
)

// Snapshot is a plain copy of a session for transport and persistence.
type Snapshot struct {
	ID               string       `json:"id"`
	PlayerName       string       `json:"player_name"`
	Difficulty       string       `json:"difficulty"`
	State            SessionState `json:"state"`
	Level            int          `json:"level"`
	MazeID           string       `json:"maze_id"`
	Width            int          `json:"width"`
	Height           int          `json:"height"`
	Rows             []string     `json:"rows"`
	Pacman           Pacman       `json:"pacman"`
	Ghosts           []Ghost      `json:"ghosts"`
	Score            Score        `json:"score"`
	Power            PowerEffect  `json:"power"`
	Fruit            Fruit        `json:"fruit"`
	RemainingDots    int          `json:"remaining_dots"`
	RemainingPellets int          `json:"remaining_pellets"`
	TotalDots        int          `json:"total_dots"`
	TotalPellets     int          `json:"total_pellets"`
	TickCount        uint64       `json:"tick_count"`
	ElapsedSeconds   float64      `json:"elapsed_seconds"`
	LevelSeconds     float64      `json:"level_seconds"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	Events           []Event      `json:"events,omitempty"`
	History          []Event      `json:"-"`
}

// Snapshot copies the session into a Snapshot. Ghosts are listed in
// personality order.
func (s *Session) Snapshot() Snapshot {
	ghosts := make([]Ghost, 0, len(Personalities))
	for _, p := range Personalities {
		if g, ok := s.Ghosts[p]; ok {
			ghosts = append(ghosts, *g)
		}
	}
	return Snapshot{
		ID:               s.ID,
		PlayerName:       s.PlayerName,
		Difficulty:       s.Difficulty,
		State:            s.State,
		Level:            s.Level,
		MazeID:           s.Maze.Layout().ID,
		Width:            s.Maze.Width(),
		Height:           s.Maze.Height(),
		Rows:             s.Maze.Rows(),
		Pacman:           s.Pacman,
		Ghosts:           ghosts,
		Score:            s.Score,
		Power:            s.Power,
		Fruit:            s.Fruit,
		RemainingDots:    s.RemainingDots,
		RemainingPellets: s.RemainingPellets,
		TotalDots:        s.Maze.TotalDots(),
		TotalPellets:     s.Maze.TotalPellets(),
		TickCount:        s.TickCount,
		ElapsedSeconds:   s.Clock.Seconds(),
		LevelSeconds:     (s.Clock - s.LevelStartedAt).Seconds(),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt(),
		Events:           slices.Clone(s.Events),
		History:          slices.Clip(s.History),
	}
}

// Ghost returns the snapshot of one personality.
func (s Snapshot) Ghost(p Personality) (Ghost, bool) {
	for _, g := range s.Ghosts {
		if g.Personality == p {
			return g, true
		}
	}
	return Ghost{}, false
}
