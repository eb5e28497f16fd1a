// Package levels loads maze layouts from YAML files. The classic maze is
// built in; a directory of extra mazes may add to or replace it.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ugaemi/pacman-server/internal/game"
)

// DefaultID is the maze used when none is configured.
const DefaultID = "classic"

// ErrNotFound is returned by LoadByID for an unknown maze.
var ErrNotFound = errors.New("maze not found")

//go:embed mazes/*.yaml
var builtin embed.FS

// Level is a loaded maze layout and where it came from.
type Level struct {
	Layout game.Layout
	Source string
}

// Loader loads mazes from the built-in set and an optional directory.
type Loader struct {
	Root string
}

// NewLoader creates a loader. An empty root loads only the built-in mazes.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll returns every valid maze sorted by ID. Files under Root replace
// built-in mazes with the same ID; invalid files are skipped.
func (l *Loader) LoadAll() ([]Level, error) {
	byID := make(map[string]Level)

	err := fs.WalkDir(builtin, "mazes", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := builtin.ReadFile(path)
		if err != nil {
			return err
		}
		layout, err := ParseYAML(data)
		if err != nil {
			return fmt.Errorf("built-in maze %s: %w", path, err)
		}
		byID[layout.ID] = Level{Layout: layout, Source: "builtin:" + path}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if l.Root != "" {
		err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
				return nil
			}
			lvl, err := l.LoadFile(path)
			if err != nil {
				slog.Warn("skipping maze file", "path", path, "error", err)
				return nil
			}
			byID[lvl.Layout.ID] = lvl
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
		}
	}

	levels := make([]Level, 0, len(byID))
	for _, lvl := range byID {
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Layout.ID < levels[j].Layout.ID
	})
	return levels, nil
}

// LoadFile loads a single maze file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", path, err)
	}
	layout, err := ParseYAML(data)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	return Level{Layout: layout, Source: path}, nil
}

// LoadByID loads a specific maze by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.Layout.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListIDs returns all maze IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.Layout.ID
	}
	return ids, nil
}

func isSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
