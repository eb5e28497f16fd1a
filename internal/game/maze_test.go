package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaze(t *testing.T) {
	m := newTestMaze(t)

	assert.Equal(t, DefaultMazeWidth, m.Width())
	assert.Equal(t, DefaultMazeHeight, m.Height())
	assert.Equal(t, 145, m.TotalDots())
	assert.Equal(t, 4, m.TotalPellets())
	assert.Equal(t, Cell{X: 9, Y: 15}, m.FruitCell(), "fruit defaults to the pacman spawn")

	dots, pellets := m.RemainingPickups()
	assert.Equal(t, 145, dots)
	assert.Equal(t, 4, pellets)
}

func TestNewMaze_InvalidLayouts(t *testing.T) {
	small := []string{"#####", "#...#", "#####"}
	ragged := append([]string(nil), classicRows...)
	ragged[3] = ragged[3][:10]
	unknown := append([]string(nil), classicRows...)
	unknown[3] = "#........x........#"

	tests := []struct {
		name   string
		mutate func(l *Layout)
	}{
		{"no rows", func(l *Layout) { l.Rows = nil }},
		{"too small", func(l *Layout) { l.Rows = small }},
		{"ragged rows", func(l *Layout) { l.Rows = ragged }},
		{"unknown character", func(l *Layout) { l.Rows = unknown }},
		{"width mismatch", func(l *Layout) { l.Width = 20 }},
		{"pacman spawn in wall", func(l *Layout) { l.PacmanSpawn = Cell{X: 0, Y: 0} }},
		{"pacman spawn in house", func(l *Layout) { l.PacmanSpawn = Cell{X: 9, Y: 9} }},
		{"missing personality", func(l *Layout) { delete(l.GhostSpawns, Shy) }},
		{"ghost spawn in wall", func(l *Layout) { l.GhostSpawns[Patrol] = Cell{X: 0, Y: 0} }},
		{"house exit inside house", func(l *Layout) { l.HouseExit = Cell{X: 9, Y: 8} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := classicLayout()
			l.GhostSpawns = map[Personality]Cell{}
			for p, c := range classicLayout().GhostSpawns {
				l.GhostSpawns[p] = c
			}
			tt.mutate(&l)
			_, err := NewMaze(l)
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}

func TestMaze_CellAt(t *testing.T) {
	m := newTestMaze(t)

	tests := []struct {
		name    string
		cell    Cell
		want    CellType
		wantErr bool
	}{
		{"wall", Cell{X: 0, Y: 0}, CellWall, false},
		{"dot", Cell{X: 1, Y: 1}, CellDot, false},
		{"power pellet", Cell{X: 1, Y: 2}, CellPowerPellet, false},
		{"empty", Cell{X: 9, Y: 15}, CellEmpty, false},
		{"tunnel", Cell{X: 0, Y: 9}, CellTunnel, false},
		{"ghost house", Cell{X: 9, Y: 9}, CellGhostHouse, false},
		{"negative x", Cell{X: -1, Y: 3}, CellWall, true},
		{"past height", Cell{X: 3, Y: 21}, CellWall, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.CellAt(tt.cell)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPosition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaze_IsWalkable(t *testing.T) {
	m := newTestMaze(t)

	assert.True(t, m.IsWalkable(Cell{X: 1, Y: 1}))
	assert.True(t, m.IsWalkable(Cell{X: 0, Y: 9}), "tunnel endpoints are walkable")
	assert.True(t, m.IsWalkable(Cell{X: 9, Y: 9}), "house cells are not walls")
	assert.False(t, m.IsWalkable(Cell{X: 0, Y: 0}))
	assert.False(t, m.IsWalkable(Cell{X: -1, Y: 9}))
	assert.False(t, m.IsWalkable(Cell{X: 19, Y: 0}))
}

func TestMaze_CanEnter(t *testing.T) {
	m := newTestMaze(t)
	house := Cell{X: 9, Y: 8}

	assert.False(t, m.CanEnter(house, false))
	assert.True(t, m.CanEnter(house, true))
	assert.True(t, m.CanEnter(Cell{X: 9, Y: 7}, false))
	assert.False(t, m.CanEnter(Cell{X: 9, Y: 6}, true))
}

func TestMaze_ConsumeDotAt(t *testing.T) {
	m := newTestMaze(t)

	tests := []struct {
		name string
		cell Cell
		want Pickup
	}{
		{"dot", Cell{X: 8, Y: 15}, PickupDot},
		{"dot again", Cell{X: 8, Y: 15}, PickupNone},
		{"power pellet", Cell{X: 1, Y: 2}, PickupPowerPellet},
		{"power pellet again", Cell{X: 1, Y: 2}, PickupNone},
		{"empty", Cell{X: 9, Y: 15}, PickupNone},
		{"wall", Cell{X: 0, Y: 0}, PickupNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ConsumeDotAt(tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := m.ConsumeDotAt(Cell{X: 50, Y: 50})
	assert.ErrorIs(t, err, ErrInvalidPosition)

	got, err := m.CellAt(Cell{X: 8, Y: 15})
	require.NoError(t, err)
	assert.Equal(t, CellEmpty, got, "consumed dots read as empty")

	dots, pellets := m.RemainingPickups()
	assert.Equal(t, 144, dots)
	assert.Equal(t, 3, pellets)
	assert.Equal(t, ' ', []rune(m.Rows()[15])[8])
}

func TestMaze_Tunnels(t *testing.T) {
	m := newTestMaze(t)

	tests := []struct {
		name string
		cell Cell
		want Cell
	}{
		{"past left endpoint", Cell{X: -1, Y: 9}, Cell{X: 18, Y: 9}},
		{"past right endpoint", Cell{X: 19, Y: 9}, Cell{X: 0, Y: 9}},
		{"unlinked row", Cell{X: -1, Y: 3}, Cell{X: -1, Y: 3}},
		{"in bounds", Cell{X: 4, Y: 9}, Cell{X: 4, Y: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.WrapIfTunnel(tt.cell))
		})
	}

	n, ok := m.Neighbor(Cell{X: 0, Y: 9}, DirLeft)
	assert.True(t, ok)
	assert.Equal(t, Cell{X: 18, Y: 9}, n)

	_, ok = m.Neighbor(Cell{X: 0, Y: 3}, DirLeft)
	assert.False(t, ok)
}

func TestMaze_CloneIsIndependent(t *testing.T) {
	m := newTestMaze(t)
	c := m.Clone()

	_, err := c.ConsumeDotAt(Cell{X: 1, Y: 1})
	require.NoError(t, err)

	orig, _ := m.CellAt(Cell{X: 1, Y: 1})
	cloned, _ := c.CellAt(Cell{X: 1, Y: 1})
	assert.Equal(t, CellDot, orig)
	assert.Equal(t, CellEmpty, cloned)
}
