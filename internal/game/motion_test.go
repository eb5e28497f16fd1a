package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMove(t *testing.T) {
	m := newTestMaze(t)

	tests := []struct {
		name     string
		body     Body
		dt       float64
		rules    MoveRules
		wantPos  Position
		wantDir  Direction
		wantNext Direction
	}{
		{
			name:    "one cell left",
			body:    Body{Pos: Position{X: 9, Y: 15}, Dir: DirLeft, Speed: 8},
			dt:      0.125,
			wantPos: Position{X: 8, Y: 15},
			wantDir: DirLeft,
		},
		{
			name:    "half a cell",
			body:    Body{Pos: Position{X: 9, Y: 15}, Dir: DirRight, Speed: 4},
			dt:      0.125,
			wantPos: Position{X: 9.5, Y: 15},
			wantDir: DirRight,
		},
		{
			name:    "blocked by wall",
			body:    Body{Pos: Position{X: 9, Y: 15}, Dir: DirDown, Speed: 8},
			dt:      0.5,
			wantPos: Position{X: 9, Y: 15},
			wantDir: DirDown,
		},
		{
			name:    "stops on the centre before a wall",
			body:    Body{Pos: Position{X: 2, Y: 15}, Dir: DirRight, Speed: 8},
			dt:      0.25,
			wantPos: Position{X: 2, Y: 15},
			wantDir: DirRight,
		},
		{
			name:    "stopped body stays put",
			body:    Body{Pos: Position{X: 9, Y: 15}, Speed: 8},
			dt:      1,
			wantPos: Position{X: 9, Y: 15},
		},
		{
			name:     "queued turn waits for an open cell",
			body:     Body{Pos: Position{X: 9, Y: 15}, Dir: DirLeft, Next: DirUp, Speed: 8},
			dt:       0.25,
			wantPos:  Position{X: 8, Y: 14},
			wantDir:  DirUp,
			wantNext: DirNone,
		},
		{
			name:     "queued turn into a wall stays queued",
			body:     Body{Pos: Position{X: 9, Y: 15}, Dir: DirLeft, Next: DirDown, Speed: 8},
			dt:       0.125,
			wantPos:  Position{X: 8, Y: 15},
			wantDir:  DirLeft,
			wantNext: DirDown,
		},
		{
			name:    "reversal commits mid-cell",
			body:    Body{Pos: Position{X: 8.5, Y: 15}, Dir: DirLeft, Next: DirRight, Speed: 1},
			dt:      0.25,
			wantPos: Position{X: 8.75, Y: 15},
			wantDir: DirRight,
		},
		{
			name:    "tunnel wraps left to right",
			body:    Body{Pos: Position{X: 0, Y: 9}, Dir: DirLeft, Speed: 4},
			dt:      0.25,
			wantPos: Position{X: 18, Y: 9},
			wantDir: DirLeft,
		},
		{
			name:    "tunnel wraps right to left",
			body:    Body{Pos: Position{X: 18, Y: 9}, Dir: DirRight, Speed: 4},
			dt:      0.5,
			wantPos: Position{X: 1, Y: 9},
			wantDir: DirRight,
		},
		{
			name:    "pacman cannot enter the house",
			body:    Body{Pos: Position{X: 9, Y: 7}, Dir: DirDown, Speed: 8},
			dt:      0.25,
			wantPos: Position{X: 9, Y: 7},
			wantDir: DirDown,
		},
		{
			name:    "house access lets a ghost in",
			body:    Body{Pos: Position{X: 9, Y: 7}, Dir: DirDown, Speed: 8},
			dt:      0.125,
			rules:   MoveRules{House: true},
			wantPos: Position{X: 9, Y: 8},
			wantDir: DirDown,
		},
		{
			name:    "a body inside the house may leave",
			body:    Body{Pos: Position{X: 9, Y: 8}, Dir: DirUp, Speed: 8},
			dt:      0.125,
			wantPos: Position{X: 9, Y: 7},
			wantDir: DirUp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Move(m, tt.body, tt.dt, tt.rules)
			assert.InDelta(t, tt.wantPos.X, got.Pos.X, 1e-9)
			assert.InDelta(t, tt.wantPos.Y, got.Pos.Y, 1e-9)
			assert.Equal(t, tt.wantDir, got.Dir)
			assert.Equal(t, tt.wantNext, got.Next)
		})
	}
}

func TestMove_SteerHalts(t *testing.T) {
	m := newTestMaze(t)
	var visited []Cell
	rules := MoveRules{Steer: func(at Cell, dir Direction) (Direction, bool) {
		visited = append(visited, at)
		return DirNone, at == Cell{X: 7, Y: 15}
	}}

	got := Move(m, Body{Pos: Position{X: 9, Y: 15}, Dir: DirLeft, Speed: 8}, 1, rules)

	assert.Equal(t, Position{X: 7, Y: 15}, got.Pos)
	assert.Equal(t, []Cell{{X: 9, Y: 15}, {X: 8, Y: 15}, {X: 7, Y: 15}}, visited)
}

func TestMove_SteerTurns(t *testing.T) {
	m := newTestMaze(t)
	rules := MoveRules{Steer: func(at Cell, dir Direction) (Direction, bool) {
		if at == (Cell{X: 8, Y: 15}) {
			return DirUp, false
		}
		return DirNone, false
	}}

	got := Move(m, Body{Pos: Position{X: 9, Y: 15}, Dir: DirLeft, Speed: 8}, 0.25, rules)

	assert.Equal(t, Position{X: 8, Y: 14}, got.Pos)
	assert.Equal(t, DirUp, got.Dir)
}

func TestPosition_Cell(t *testing.T) {
	tests := []struct {
		pos  Position
		want Cell
	}{
		{Position{X: 3, Y: 4}, Cell{X: 3, Y: 4}},
		{Position{X: 3.49, Y: 4}, Cell{X: 3, Y: 4}},
		{Position{X: 3.5, Y: 4}, Cell{X: 4, Y: 4}},
		{Position{X: -0.5, Y: 9}, Cell{X: 0, Y: 9}},
		{Position{X: -0.51, Y: 9}, Cell{X: -1, Y: 9}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.pos.Cell(), "%+v", tt.pos)
	}
}
