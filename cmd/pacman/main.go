// pacman runs the Pac-Man session server and its maintenance commands.
//
// Usage:
//
//	pacman serve            - Start the websocket session server
//	pacman scores           - Show the high-score table
//	pacman mazes            - List available mazes
//
// Global flags:
//
//	--store <driver>  - Store driver: sqlite, postgres or none
//	--db <dsn>        - SQLite path or PostgreSQL URL for the store
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ugaemi/pacman-server/internal/config"
)

var (
	// Global flags
	flagStore string
	flagDB    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pacman",
	Short: "Pac-Man simulation server",
	Long: `Pac-Man runs arcade game sessions on the server and streams their state
to websocket clients. Finished games are recorded in SQLite or PostgreSQL.

Available commands:
  serve    - Start the session server
  scores   - View high scores
  mazes    - List available mazes

Examples:
  pacman serve --port 8080
  pacman serve --store postgres --db postgres://localhost/pacman
  pacman scores --limit 5
  pacman mazes`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Store driver: sqlite, postgres or none (default from STORE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite path or PostgreSQL URL (default from SQLITE_PATH or DATABASE_URL)")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(mazesCmd)
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if cmd.Flags().Changed("store") {
		cfg.StoreDriver = flagStore
	}
	if cmd.Flags().Changed("db") {
		switch cfg.StoreDriver {
		case config.StorePostgres:
			cfg.DatabaseURL = flagDB
		default:
			cfg.SQLitePath = flagDB
		}
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = flagPort
	}
	if cmd.Flags().Changed("maze") {
		cfg.MazeID = flagMaze
	}
	if cmd.Flags().Changed("maze-dir") {
		cfg.MazeDir = flagMazeDir
	}
	return cfg
}
