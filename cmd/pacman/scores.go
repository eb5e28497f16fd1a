package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ugaemi/pacman-server/internal/config"
	"github.com/ugaemi/pacman-server/internal/store"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high-score table",
	Long: `Display the best finished games recorded in the store.

Examples:
  pacman scores
  pacman scores --limit 20
  pacman scores --store postgres --db postgres://localhost/pacman`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", store.DefaultTopScores, "Number of scores to show")
}

func runScores(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)
	if cfg.StoreDriver == config.StoreNone {
		return fmt.Errorf("no store configured, pass --store sqlite or --store postgres")
	}

	ctx := cmd.Context()
	gs, err := store.Open(ctx, cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer gs.Close()

	scores, err := gs.TopScores(ctx, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "High Scores")
	fmt.Fprintln(out)

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		return nil
	}

	// Print header
	fmt.Fprintf(out, "  %-4s  %-20s  %-8s  %-5s  %-10s  %s\n", "Rank", "Player", "Score", "Level", "Difficulty", "Date")
	fmt.Fprintf(out, "  %-4s  %-20s  %-8s  %-5s  %-10s  %s\n", "----", "------", "-----", "-----", "----------", "----")

	for i, hs := range scores {
		fmt.Fprintf(out, "  %-4d  %-20s  %-8d  %-5d  %-10s  %s\n",
			i+1, truncate(hs.PlayerName, 20), hs.Score, hs.Level, hs.Difficulty, hs.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
