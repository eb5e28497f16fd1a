package game

// ContactRange reports whether Pac-Man and a ghost touch.
func ContactRange(pac, ghost Position, radius float64) bool {
	return PositionDistance(pac, ghost) < radius
}

// FindGhostContacts returns the ghosts touching Pac-Man, in personality
// order.
func FindGhostContacts(s *Session) []*Ghost {
	var contacts []*Ghost
	for _, p := range Personalities {
		g := s.Ghosts[p]
		if ContactRange(s.Pacman.Position, g.Position, s.Settings.CollisionRadius) {
			contacts = append(contacts, g)
		}
	}
	return contacts
}

// Resolve applies pickups and Pac-Man/ghost contacts after motion.
func Resolve(s *Session) {
	s.eatPickup()
	s.eatFruit()

	for _, g := range FindGhostContacts(s) {
		switch {
		case g.Mode == ModeVulnerable:
			s.eatGhost(g)
		case g.Threatening():
			if s.Pacman.Invulnerable(s.Clock) {
				continue
			}
			s.killPacman()
			return
		}
	}
}

func (s *Session) eatPickup() {
	at := s.Pacman.Position.Cell()
	pickup, err := s.Maze.ConsumeDotAt(at)
	if err != nil {
		return
	}
	switch pickup {
	case PickupDot:
		s.RemainingDots--
		s.Score.Dots++
		s.Score.Points += DotPoints
		s.emit(Event{Kind: EventDot, Points: DotPoints, Cell: at})
	case PickupPowerPellet:
		s.RemainingPellets--
		s.Score.PowerPellets++
		s.Score.Points += PowerPelletPoints
		s.emit(Event{Kind: EventPowerPellet, Points: PowerPelletPoints, Cell: at})
		s.activatePower()
	}
}

// activatePower starts or restarts the power-pellet effect and frightens
// every ghost that can be frightened.
func (s *Session) activatePower() {
	s.Power = PowerEffect{
		Active:      true,
		ActivatedAt: s.Clock,
		Duration:    s.Settings.PowerDuration,
	}
	s.Score.Combo = 1
	until := s.Power.EndsAt()
	for _, p := range Personalities {
		if err := s.Ghosts[p].Frighten(until, s.vulnerableSpeed()); err != nil {
			s.warnTransition(err)
		}
	}
}

func (s *Session) eatFruit() {
	if !s.Fruit.Active || s.Pacman.Position.Cell() != s.Fruit.Cell {
		return
	}
	s.Fruit.Active = false
	s.Score.Fruits++
	s.Score.Bonus += s.Fruit.Points
	s.Score.Points += s.Fruit.Points
	s.emit(Event{Kind: EventFruit, Points: s.Fruit.Points, Cell: s.Fruit.Cell})
}

func (s *Session) eatGhost(g *Ghost) {
	if err := g.Eat(); err != nil {
		s.warnTransition(err)
		return
	}
	points := GhostBasePoints << (s.Score.Combo - 1)
	s.Score.Points += points
	s.Score.Ghosts++
	s.Score.Combo = min(s.Score.Combo+1, MaxCombo)
	s.Power.GhostsEaten = min(s.Power.GhostsEaten+1, MaxCombo)
	s.emit(Event{Kind: EventGhost, Points: points, Cell: g.Position.Cell(), Ghost: g.Personality.String()})
}

// killPacman costs a life. With lives left, Pac-Man and every ghost go back
// to their spawns and the power effect ends.
func (s *Session) killPacman() {
	s.Pacman.Lives = max(s.Pacman.Lives-1, 0)
	s.emit(Event{Kind: EventDeath, Cell: s.Pacman.Position.Cell()})
	s.endPower()
	if s.Pacman.Lives == 0 {
		return
	}
	s.Pacman.Respawn(s.Clock + s.Settings.Invulnerability)
	for _, p := range Personalities {
		s.Ghosts[p].ResetToSpawn(s.ghostSpeed(), s.exitTime(p))
	}
}
