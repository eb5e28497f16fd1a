package game

import "time"

// Settings are the difficulty-dependent tuning values of a session.
type Settings struct {
	Name                  string        `json:"name"`
	PacmanSpeed           float64       `json:"pacman_speed"` // cells per second
	GhostSpeed            float64       `json:"ghost_speed"`
	VulnerableSpeedFactor float64       `json:"vulnerable_speed_factor"`
	ReturningSpeed        float64       `json:"returning_speed"`
	PowerDuration         time.Duration `json:"power_duration"`
	Lives                 int           `json:"lives"`
	Invulnerability       time.Duration `json:"invulnerability"`
	// ExitDelay staggers ghosts leaving the house: the n-th personality
	// leaves n*ExitDelay after a (re)spawn.
	ExitDelay       time.Duration `json:"exit_delay"`
	CollisionRadius float64       `json:"collision_radius"`
	AmbushLead      int           `json:"ambush_lead"`
	PatrolRadius    float64       `json:"patrol_radius"`
	ShyRadius       float64       `json:"shy_radius"`
	// LevelSpeedup is the fractional speed gain per level after the first.
	LevelSpeedup float64 `json:"level_speedup"`
}

// maxLevelScale caps how much faster later levels get.
const maxLevelScale = 1.5

// DefaultSettings returns the "normal" difficulty.
func DefaultSettings() Settings {
	return Settings{
		Name:                  "normal",
		PacmanSpeed:           8.0,
		GhostSpeed:            7.5,
		VulnerableSpeedFactor: 0.5,
		ReturningSpeed:        16.0,
		PowerDuration:         8 * time.Second,
		Lives:                 DefaultLives,
		Invulnerability:       2 * time.Second,
		ExitDelay:             3 * time.Second,
		CollisionRadius:       0.5,
		AmbushLead:            4,
		PatrolRadius:          8,
		ShyRadius:             8,
		LevelSpeedup:          0.05,
	}
}

// Normalize fills zero values from DefaultSettings and clamps values to
// their legal ranges.
func (s Settings) Normalize() Settings {
	d := DefaultSettings()
	if s.Name == "" {
		s.Name = d.Name
	}
	if s.PacmanSpeed <= 0 {
		s.PacmanSpeed = d.PacmanSpeed
	}
	if s.GhostSpeed <= 0 {
		s.GhostSpeed = d.GhostSpeed
	}
	if s.VulnerableSpeedFactor <= 0 || s.VulnerableSpeedFactor > 1 {
		s.VulnerableSpeedFactor = d.VulnerableSpeedFactor
	}
	if s.ReturningSpeed <= 0 {
		s.ReturningSpeed = d.ReturningSpeed
	}
	if s.PowerDuration == 0 {
		s.PowerDuration = d.PowerDuration
	}
	s.PowerDuration = min(max(s.PowerDuration, MinPowerDuration), MaxPowerDuration)
	if s.Lives <= 0 {
		s.Lives = d.Lives
	}
	s.Lives = min(s.Lives, MaxLives)
	if s.Invulnerability < 0 {
		s.Invulnerability = 0
	}
	if s.ExitDelay < 0 {
		s.ExitDelay = 0
	}
	if s.CollisionRadius <= 0 {
		s.CollisionRadius = d.CollisionRadius
	}
	if s.AmbushLead <= 0 {
		s.AmbushLead = d.AmbushLead
	}
	if s.PatrolRadius <= 0 {
		s.PatrolRadius = d.PatrolRadius
	}
	if s.ShyRadius <= 0 {
		s.ShyRadius = d.ShyRadius
	}
	if s.LevelSpeedup < 0 {
		s.LevelSpeedup = 0
	}
	return s
}

// levelScale is the speed multiplier for a level.
func (s Settings) levelScale(level int) float64 {
	scale := 1 + s.LevelSpeedup*float64(level-1)
	return min(max(scale, 1), maxLevelScale)
}
