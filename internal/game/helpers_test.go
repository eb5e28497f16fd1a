package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var classicRows = []string{
	"###################",
	"#........#........#",
	"#o##.###.#.###.##o#",
	"#.................#",
	"#.##.#.#####.#.##.#",
	"#....#...#...#....#",
	"####.### # ###.####",
	"####.#       #.####",
	"####.# ##H## #.####",
	"T   .  #HHH#  .   T",
	"####.# ##### #.####",
	"####.#       #.####",
	"####.# ##### #.####",
	"#........#........#",
	"#.##.###.#.###.##.#",
	"#o.#..... .....#.o#",
	"##.#.#.#####.#.#.##",
	"#....#...#...#....#",
	"#.#######.#######.#",
	"#.................#",
	"###################",
}

func classicLayout() Layout {
	return Layout{
		ID:          "classic",
		Name:        "Classic",
		Rows:        classicRows,
		PacmanSpawn: Cell{X: 9, Y: 15},
		GhostSpawns: map[Personality]Cell{
			Chaser:   {X: 9, Y: 7},
			Ambusher: {X: 9, Y: 9},
			Patrol:   {X: 8, Y: 9},
			Shy:      {X: 10, Y: 9},
		},
		HouseExit: Cell{X: 9, Y: 7},
	}
}

func newTestMaze(t *testing.T) *Maze {
	t.Helper()
	m, err := NewMaze(classicLayout())
	require.NoError(t, err)
	return m
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession("test-session", "tester", classicLayout(), DefaultSettings())
	require.NoError(t, err)
	return s
}

// playing returns a started session with Pac-Man stopped on c.
func playing(t *testing.T, c Cell) *Session {
	t.Helper()
	s := newTestSession(t)
	s.State = StatePlaying
	s.Pacman.Position = c.Center()
	s.Pacman.Direction = DirNone
	return s
}

// park stops a ghost on a position so Tick leaves it in place.
func park(g *Ghost, p Position) {
	g.Position = p
	g.Direction = DirNone
	g.Speed = 0
}
