package handler

import (
	"net/http"

	"github.com/alanyoungcy/arbscan/internal/session"
)

// StatusHandler serves scanner runtime statistics for the dashboard.
type StatusHandler struct {
	sess *session.Session
	mode string
}

// NewStatusHandler creates a StatusHandler reporting the given run mode.
func NewStatusHandler(sess *session.Session, mode string) *StatusHandler {
	return &StatusHandler{sess: sess, mode: mode}
}

// GetStatus responds with the run mode and accumulated session counters.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	stats := h.sess.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":  h.mode,
		"stats": stats,
	})
}
