package levels

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ugaemi/pacman-server/internal/game"
)

// YAMLMaze is the on-disk form of a maze.
//
// Rows use '#' for walls, '.' for dots, 'o' for power pellets, ' ' for
// empty floor, 'T' for tunnel endpoints and 'H' for the ghost house.
type YAMLMaze struct {
	ID        string               `yaml:"id"`
	Name      string               `yaml:"name"`
	Rows      []string             `yaml:"rows"`
	Pacman    game.Cell            `yaml:"pacman"`
	Ghosts    map[string]game.Cell `yaml:"ghosts"`
	HouseExit game.Cell            `yaml:"house_exit"`
	Fruit     *game.Cell           `yaml:"fruit,omitempty"`
}

// ParseYAML parses and validates a maze file.
func ParseYAML(data []byte) (game.Layout, error) {
	var ym YAMLMaze
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return game.Layout{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if ym.ID == "" {
		return game.Layout{}, fmt.Errorf("%w: missing id", game.ErrInvalidLayout)
	}

	spawns := make(map[game.Personality]game.Cell, len(ym.Ghosts))
	for name, c := range ym.Ghosts {
		p, ok := game.ParsePersonality(name)
		if !ok {
			return game.Layout{}, fmt.Errorf("%w: unknown ghost %q", game.ErrInvalidLayout, name)
		}
		spawns[p] = c
	}

	name := ym.Name
	if name == "" {
		name = ym.ID
	}
	layout := game.Layout{
		ID:          ym.ID,
		Name:        name,
		Rows:        ym.Rows,
		PacmanSpawn: ym.Pacman,
		GhostSpawns: spawns,
		HouseExit:   ym.HouseExit,
		FruitCell:   ym.Fruit,
	}

	m, err := game.NewMaze(layout)
	if err != nil {
		return game.Layout{}, err
	}
	return m.Layout(), nil
}
