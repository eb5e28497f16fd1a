package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ugaemi/pacman-server/internal/game"
)

//go:embed defaults/difficulty.yaml
var defaultDifficultyYAML []byte

// DefaultDifficulty is the preset used for unknown or empty names.
const DefaultDifficulty = "normal"

// DifficultyPreset is one named set of tuning values.
type DifficultyPreset struct {
	PacmanSpeed           float64       `yaml:"pacman_speed"`
	GhostSpeed            float64       `yaml:"ghost_speed"`
	VulnerableSpeedFactor float64       `yaml:"vulnerable_speed_factor"`
	ReturningSpeed        float64       `yaml:"returning_speed"`
	PowerDuration         time.Duration `yaml:"power_duration"`
	Lives                 int           `yaml:"lives"`
	Invulnerability       time.Duration `yaml:"invulnerability"`
	ExitDelay             time.Duration `yaml:"exit_delay"`
	CollisionRadius       float64       `yaml:"collision_radius"`
	AmbushLead            int           `yaml:"ambush_lead"`
	PatrolRadius          float64       `yaml:"patrol_radius"`
	ShyRadius             float64       `yaml:"shy_radius"`
	LevelSpeedup          float64       `yaml:"level_speedup"`
}

// Difficulties holds the presets read from a difficulty file.
type Difficulties struct {
	Presets map[string]DifficultyPreset `yaml:"presets"`
}

// Settings converts the named preset into game settings. Unknown names
// fall back to DefaultDifficulty, then to the built-in game defaults.
func (d Difficulties) Settings(name string) game.Settings {
	p, ok := d.Presets[name]
	if !ok {
		name = DefaultDifficulty
		p, ok = d.Presets[name]
	}
	if !ok {
		return game.DefaultSettings()
	}
	return game.Settings{
		Name:                  name,
		PacmanSpeed:           p.PacmanSpeed,
		GhostSpeed:            p.GhostSpeed,
		VulnerableSpeedFactor: p.VulnerableSpeedFactor,
		ReturningSpeed:        p.ReturningSpeed,
		PowerDuration:         p.PowerDuration,
		Lives:                 p.Lives,
		Invulnerability:       p.Invulnerability,
		ExitDelay:             p.ExitDelay,
		CollisionRadius:       p.CollisionRadius,
		AmbushLead:            p.AmbushLead,
		PatrolRadius:          p.PatrolRadius,
		ShyRadius:             p.ShyRadius,
		LevelSpeedup:          p.LevelSpeedup,
	}.Normalize()
}

// Names returns the preset names in sorted order.
func (d Difficulties) Names() []string {
	names := make([]string, 0, len(d.Presets))
	for n := range d.Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadDifficulty loads difficulty presets.
// Search order: customPath -> ~/.pacman/difficulty.yaml -> ./configs/difficulty.yaml -> embedded default
func LoadDifficulty(customPath string) (Difficulties, error) {
	var d Difficulties

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return d, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &d); err != nil {
			return d, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return d, nil
	}

	if p := userConfigPath("difficulty.yaml"); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			if err := yaml.Unmarshal(data, &d); err == nil {
				return d, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/difficulty.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &d); err == nil {
			return d, nil
		}
	}

	if err := yaml.Unmarshal(defaultDifficultyYAML, &d); err != nil {
		return Difficulties{}, nil // presets fall back to game.DefaultSettings
	}
	return d, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pacman", filename)
}
