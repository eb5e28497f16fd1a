package game

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// Session is the whole state of one game. Tick, ApplyInput, Pause, Resume
// and NextLevel never modify the session they are given; they return a new
// one.
type Session struct {
	ID               string
	PlayerName       string
	Difficulty       string
	State            SessionState
	Level            int
	Maze             *Maze
	Pacman           Pacman
	Ghosts           map[Personality]*Ghost
	Score            Score
	Power            PowerEffect
	Fruit            Fruit
	RemainingDots    int
	RemainingPellets int
	Settings         Settings

	// Clock is simulation time; it only advances while playing.
	Clock          time.Duration
	LevelStartedAt time.Duration
	TickCount      uint64
	CreatedAt      time.Time

	// Events holds what happened during the last tick; History holds every
	// event of the session. Entries in History are never rewritten.
	Events  []Event
	History []Event
}

// NewSession starts a session at level 1 in the ready state.
func NewSession(id, playerName string, layout Layout, settings Settings) (*Session, error) {
	maze, err := NewMaze(layout)
	if err != nil {
		return nil, err
	}
	settings = settings.Normalize()
	s := &Session{
		ID:         id,
		PlayerName: NormalizePlayerName(playerName),
		Difficulty: settings.Name,
		Settings:   settings,
		CreatedAt:  time.Now(),
		Score:      Score{Combo: 1},
	}
	s.startLevel(1, maze)
	s.Pacman.Lives = settings.Lives
	return s, nil
}

// startLevel places every entity on its spawn for a fresh maze.
func (s *Session) startLevel(level int, maze *Maze) {
	s.State = StateReady
	s.Level = level
	s.Maze = maze
	s.RemainingDots = maze.TotalDots()
	s.RemainingPellets = maze.TotalPellets()
	s.Power = PowerEffect{}
	s.Fruit = Fruit{Cell: maze.FruitCell()}
	s.Score.Combo = 1
	s.LevelStartedAt = s.Clock

	s.Pacman.Spawn = maze.PacmanSpawn()
	s.Pacman.Speed = s.pacmanSpeed()
	s.Pacman.Respawn(s.Clock)

	s.Ghosts = make(map[Personality]*Ghost, len(Personalities))
	for _, p := range Personalities {
		g := &Ghost{Personality: p, Spawn: maze.GhostSpawn(p)}
		g.ResetToSpawn(s.ghostSpeed(), s.exitTime(p))
		s.Ghosts[p] = g
	}
	s.retarget()
}

func (s *Session) pacmanSpeed() float64 {
	return s.Settings.PacmanSpeed * s.Settings.levelScale(s.Level)
}

func (s *Session) ghostSpeed() float64 {
	return s.Settings.GhostSpeed * s.Settings.levelScale(s.Level)
}

func (s *Session) vulnerableSpeed() float64 {
	return s.ghostSpeed() * s.Settings.VulnerableSpeedFactor
}

func (s *Session) exitTime(p Personality) time.Duration {
	return s.Clock + time.Duration(p)*s.Settings.ExitDelay
}

// UpdatedAt is the wall time matching the session clock.
func (s *Session) UpdatedAt() time.Time {
	return s.CreatedAt.Add(s.Clock)
}

// Clone returns a deep copy. History is append-only, so the copy shares
// the existing entries and its first append moves it to its own array.
func (s *Session) Clone() *Session {
	c := *s
	c.Maze = s.Maze.Clone()
	c.Ghosts = make(map[Personality]*Ghost, len(s.Ghosts))
	for p, g := range s.Ghosts {
		gc := *g
		c.Ghosts[p] = &gc
	}
	c.Events = slices.Clone(s.Events)
	c.History = slices.Clip(s.History)
	return &c
}

// Tick advances a playing session by dt. Sessions that are not playing come
// back unchanged. A dt longer than MaxTickDuration is cut down to it, and
// the rest is simulated in sub-steps short enough that nobody skips a cell.
func Tick(prev *Session, dt time.Duration) *Session {
	s := prev.Clone()
	s.Events = nil
	if s.State != StatePlaying || dt <= 0 {
		return s
	}
	s.TickCount++
	dt = min(dt, MaxTickDuration)

	n := s.substeps(dt)
	step := dt / time.Duration(n)
	for i := 0; i < n && s.State == StatePlaying; i++ {
		d := step
		if i == n-1 {
			d = dt - step*time.Duration(n-1)
		}
		s.simulate(d)
	}
	return s
}

// substeps is the number of steps dt is split into: none may be longer
// than TickInterval or carry any entity more than maxStepTravel cells.
func (s *Session) substeps(dt time.Duration) int {
	fastest := max(s.Pacman.Speed, s.Settings.ReturningSpeed)
	for _, g := range s.Ghosts {
		fastest = max(fastest, g.Speed)
	}
	limit := TickInterval
	if fastest > 0 {
		limit = min(limit, time.Duration(maxStepTravel/fastest*float64(time.Second)))
	}
	limit = max(limit, time.Millisecond)
	return int((dt + limit - 1) / limit)
}

func (s *Session) simulate(dt time.Duration) {
	s.Clock += dt
	secs := dt.Seconds()

	s.updatePower()
	s.expireFruit()
	s.movePacman(secs)
	s.moveGhosts(secs)
	Resolve(s)
	s.updateGhosts()
	s.spawnFruit()
	s.checkProgress()
}

// ApplyInput queues a direction for Pac-Man. Anything but the four
// movement directions is ignored. The first input starts a ready session.
func ApplyInput(prev *Session, d Direction) *Session {
	s := prev.Clone()
	if !d.Valid() || s.State.Terminal() {
		return s
	}
	s.Pacman.Next = d
	if s.State == StateReady {
		s.State = StatePlaying
	}
	return s
}

// Pause stops the clock of a playing session.
func Pause(prev *Session) (*Session, error) {
	if prev.State != StatePlaying {
		return prev.Clone(), fmt.Errorf("%w: cannot pause a %s session", ErrInvalidTransition, prev.State)
	}
	s := prev.Clone()
	s.State = StatePaused
	return s, nil
}

// Resume restarts a paused session.
func Resume(prev *Session) (*Session, error) {
	if prev.State != StatePaused {
		return prev.Clone(), fmt.Errorf("%w: cannot resume a %s session", ErrInvalidTransition, prev.State)
	}
	s := prev.Clone()
	s.State = StatePlaying
	return s, nil
}

// NextLevel starts the following level of a completed one, keeping the
// player, score, lives and clock.
func NextLevel(prev *Session) (*Session, error) {
	if prev.State != StateLevelComplete {
		return prev.Clone(), fmt.Errorf("%w: level is %s, not complete", ErrInvalidTransition, prev.State)
	}
	maze, err := NewMaze(prev.Maze.Layout())
	if err != nil {
		return nil, err
	}
	s := prev.Clone()
	s.Events = nil
	s.startLevel(prev.Level+1, maze)
	return s, nil
}

func (s *Session) emit(e Event) {
	e.At = s.Clock
	s.Events = append(s.Events, e)
	s.History = append(s.History, e)
}

func (s *Session) warnTransition(err error) {
	slog.Warn("transition rejected", "session", s.ID, "error", err)
}

// updatePower runs down the power-pellet timer.
func (s *Session) updatePower() {
	for _, p := range Personalities {
		g := s.Ghosts[p]
		if g.Mode == ModeVulnerable && s.Clock >= g.VulnerableUntil {
			if err := g.Calm(s.ghostSpeed()); err != nil {
				s.warnTransition(err)
			}
		}
	}
	if s.Power.Active && s.Clock >= s.Power.EndsAt() {
		s.endPower()
		s.emit(Event{Kind: EventPowerEnd})
	}
}

func (s *Session) endPower() {
	s.Power.Active = false
	s.Score.Combo = 1
}

func (s *Session) movePacman(secs float64) {
	pm := &s.Pacman
	b := Move(s.Maze, Body{Pos: pm.Position, Dir: pm.Direction, Next: pm.Next, Speed: pm.Speed}, secs, MoveRules{})
	pm.Position, pm.Direction, pm.Next = b.Pos, b.Dir, b.Next
}

func (s *Session) moveGhosts(secs float64) {
	for _, p := range Personalities {
		g := s.Ghosts[p]
		if (g.Mode == ModeNormal || g.Mode == ModeVulnerable) && s.Clock < g.ExitAt {
			continue
		}
		returning := g.Mode == ModeReturning || g.Mode == ModeEaten
		rules := MoveRules{
			House: returning,
			Steer: func(at Cell, dir Direction) (Direction, bool) {
				if returning && at == g.Spawn {
					return DirNone, true
				}
				return chooseDirection(s.Maze, at, dir, g.Target, returning), false
			},
		}
		b := Move(s.Maze, Body{Pos: g.Position, Dir: g.Direction, Speed: g.Speed}, secs, rules)
		g.Position, g.Direction = b.Pos, b.Dir
	}
}

// updateGhosts advances ghost modes and recomputes targets.
func (s *Session) updateGhosts() {
	for _, p := range Personalities {
		g := s.Ghosts[p]
		switch g.Mode {
		case ModeEaten:
			if err := g.BeginReturn(s.Settings.ReturningSpeed); err != nil {
				s.warnTransition(err)
			}
		case ModeReturning:
			if g.Position.Aligned() && g.Position.Cell() == g.Spawn {
				if err := g.Revive(s.ghostSpeed(), s.Clock); err != nil {
					s.warnTransition(err)
				}
			}
		}
	}
	s.retarget()
}

func (s *Session) retarget() {
	pac := s.Pacman.Position.Cell()
	chaser := s.Ghosts[Chaser].Position.Cell()
	for _, p := range Personalities {
		g := s.Ghosts[p]
		self := g.Position.Cell()
		switch {
		case g.Mode == ModeEaten || g.Mode == ModeReturning:
			g.Target = g.Spawn
		case s.Maze.IsHouse(self):
			g.Target = s.Maze.HouseExit()
		case g.Mode == ModeVulnerable:
			g.Target = homeCorner(p, s.Maze)
		default:
			g.Target = chaseTarget(p, self, pac, s.Pacman.Direction, chaser, s.Maze, s.Settings)
		}
	}
}

func (s *Session) expireFruit() {
	if s.Fruit.Active && s.Clock >= s.Fruit.ExpiresAt {
		s.Fruit.Active = false
	}
}

func (s *Session) spawnFruit() {
	if s.Fruit.Active || s.Fruit.Spawned >= len(fruitThresholds) {
		return
	}
	eaten := s.Maze.TotalDots() - s.RemainingDots
	if eaten < fruitThresholds[s.Fruit.Spawned] {
		return
	}
	s.Fruit.Active = true
	s.Fruit.Points = FruitPoints(s.Level)
	s.Fruit.ExpiresAt = s.Clock + FruitDuration
	s.Fruit.Spawned++
}

// checkProgress ends the level when the last dot is eaten or the lives
// are gone. Power pellets left on the board do not hold the level open.
func (s *Session) checkProgress() {
	switch {
	case s.Pacman.Lives <= 0:
		s.State = StateGameOver
		s.emit(Event{Kind: EventGameOver, Cell: s.Pacman.Position.Cell()})
	case s.RemainingDots == 0:
		s.State = StateLevelComplete
		s.emit(Event{Kind: EventLevelComplete, Cell: s.Pacman.Position.Cell()})
	}
}
