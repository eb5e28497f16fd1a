package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ugaemi/pacman-server/internal/config"
	"github.com/ugaemi/pacman-server/internal/handler"
	"github.com/ugaemi/pacman-server/internal/levels"
	"github.com/ugaemi/pacman-server/internal/metrics"
	"github.com/ugaemi/pacman-server/internal/record"
	"github.com/ugaemi/pacman-server/internal/session"
	"github.com/ugaemi/pacman-server/internal/store"
	"github.com/ugaemi/pacman-server/internal/ws"
)

const shutdownTimeout = 10 * time.Second

var (
	flagPort    int
	flagMaze    string
	flagMazeDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the session server",
	Long: `Start the HTTP server. Clients open a websocket on /ws, create a session
and steer Pac-Man; the server ticks every session and pushes its state back.

Endpoints:
  /health    liveness probe
  /ws        websocket session protocol
  /metrics   Prometheus metrics
  /scores    high-score table as JSON (?limit=N)

Examples:
  pacman serve
  pacman serve --port 9000 --maze classic
  pacman serve --store none`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&flagPort, "port", 8080, "HTTP listen port (default from PORT)")
	serveCmd.Flags().StringVar(&flagMaze, "maze", "", "Maze ID to play (default from MAZE_ID)")
	serveCmd.Flags().StringVar(&flagMazeDir, "maze-dir", "", "Directory with extra maze files (default from MAZE_DIR)")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)
	setupLogger(cfg)

	difficulties, err := config.LoadDifficulty(cfg.DifficultyPath)
	if err != nil {
		return fmt.Errorf("loading difficulty presets: %w", err)
	}
	level, err := levels.NewLoader(cfg.MazeDir).LoadByID(cfg.MazeID)
	if err != nil {
		return fmt.Errorf("loading maze %q: %w", cfg.MazeID, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gs, err := store.Open(ctx, cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}
	var writer *store.Writer
	if gs != nil {
		defer gs.Close()
		writer = store.NewWriter(gs, store.DefaultQueueSize, cfg.PersistTimeout)
		writer.OnResult = func(_ *record.Game, err error) {
			metrics.RecordWrite(err)
		}
	} else {
		slog.Warn("persistence disabled, finished games will not be recorded")
	}

	metrics.RegisterMetrics()

	sm := session.NewManager(session.Options{
		Layout:       level.Layout,
		Difficulties: difficulties,
		Writer:       writer,
		TickInterval: cfg.TickInterval(),
		LevelDelay:   cfg.LevelDelay,
	})

	hub := ws.NewHub()
	router := handler.NewRouter(sm)
	hub.OnMessage = router.HandleMessage
	hub.OnDisconnect = router.HandleDisconnect
	go hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(hub, w, r)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/scores", handler.NewScoresHandler(gs))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr, "maze", level.Layout.ID,
			"store", cfg.StoreDriver, "tick_rate", cfg.TickRate)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if writer != nil {
		// The writer outlives the request context so records queued during
		// shutdown still reach the store; Close ends it.
		g.Go(func() error {
			return writer.Run(context.Background())
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("server shutting down", "sessions", sm.Count())
		if err := hub.Notify(ws.TypeServerShutdown, ws.ShutdownMessage{Reason: "server shutting down"}); err != nil {
			slog.Warn("shutdown notice failed", "error", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		sm.StopAll()
		if writer != nil {
			writer.Close()
		}
		return err
	})

	return g.Wait()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleWebSocket(hub *ws.Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(uuid.NewString(), hub, conn)
	hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
