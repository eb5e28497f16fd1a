package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ugaemi/pacman-server/internal/record"
	"github.com/ugaemi/pacman-server/internal/store"
)

// maxScoreLimit bounds the limit query parameter.
const maxScoreLimit = 100

// ScoresHandler serves the high-score table over HTTP.
type ScoresHandler struct {
	store store.GameStore
}

// NewScoresHandler creates a handler reading from s. A nil store answers
// every request with 503.
func NewScoresHandler(s store.GameStore) *ScoresHandler {
	return &ScoresHandler{store: s}
}

type scoresResponse struct {
	Scores []record.HighScore `json:"scores"`
}

func (h *ScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.store == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}

	limit := store.DefaultTopScores
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxScoreLimit)
	}

	scores, err := h.store.TopScores(r.Context(), limit)
	if err != nil {
		slog.Error("failed to load scores", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load scores")
		return
	}
	if scores == nil {
		scores = []record.HighScore{}
	}
	writeJSON(w, http.StatusOK, scoresResponse{Scores: scores})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
