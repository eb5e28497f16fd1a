package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ugaemi/pacman-server/internal/game"
	"github.com/ugaemi/pacman-server/internal/levels"
)

var mazesCmd = &cobra.Command{
	Use:   "mazes",
	Short: "List available mazes",
	Long: `Shows the built-in mazes plus any found in --maze-dir or MAZE_DIR.
Files in the directory override built-in mazes with the same ID.`,
	Args: cobra.NoArgs,
	RunE: runMazes,
}

func init() {
	mazesCmd.Flags().StringVar(&flagMazeDir, "maze-dir", "", "Directory with extra maze files (default from MAZE_DIR)")
}

func runMazes(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)
	all, err := levels.NewLoader(cfg.MazeDir).LoadAll()
	if err != nil {
		return fmt.Errorf("loading mazes: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(all) == 0 {
		fmt.Fprintln(out, "No mazes available.")
		return nil
	}

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, l := range all {
		if len(l.Layout.ID) > maxIDLen {
			maxIDLen = len(l.Layout.ID)
		}
	}

	fmt.Fprintf(out, "  %-*s  %-7s  %-5s  %-7s  %s\n", maxIDLen, "ID", "Size", "Dots", "Pellets", "Source")
	fmt.Fprintf(out, "  %-*s  %-7s  %-5s  %-7s  %s\n", maxIDLen, "--", "----", "----", "-------", "------")

	for _, l := range all {
		m, err := game.NewMaze(l.Layout)
		if err != nil {
			return fmt.Errorf("maze %s: %w", l.Layout.ID, err)
		}
		size := fmt.Sprintf("%dx%d", m.Width(), m.Height())
		fmt.Fprintf(out, "  %-*s  %-7s  %-5d  %-7d  %s\n", maxIDLen, l.Layout.ID, size, m.TotalDots(), m.TotalPellets(), l.Source)
	}
	return nil
}
