package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/arbscan/internal/export"
	"github.com/alanyoungcy/arbscan/internal/session"
)

// OpportunityHandler serves the results of the most recent scans.
type OpportunityHandler struct {
	sess   *session.Session
	logger *slog.Logger
}

// NewOpportunityHandler creates an OpportunityHandler backed by the given
// session store.
func NewOpportunityHandler(sess *session.Session, logger *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		sess:   sess,
		logger: logHandler(logger, "opportunities"),
	}
}

// ListLatest responds with the opportunities from the most recent scan.
// GET /api/opportunities
func (h *OpportunityHandler) ListLatest(w http.ResponseWriter, r *http.Request) {
	opps := h.sess.Latest()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":         len(opps),
		"opportunities": opps,
	})
}

// ListHistory responds with the retained scan history, newest last.
// GET /api/opportunities/history
func (h *OpportunityHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0, 1)
	opps := h.sess.History()
	if limit > 0 && len(opps) > limit {
		opps = opps[len(opps)-limit:]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":         len(opps),
		"opportunities": opps,
	})
}

// ExportCSV streams the latest opportunities as a CSV attachment.
// GET /api/opportunities/export.csv
func (h *OpportunityHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := export.CSV(h.sess.Latest())
	if err != nil {
		h.logger.Error("csv export failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	serveAttachment(w, data, "text/csv; charset=utf-8", "csv")
}

// ExportJSON streams the latest opportunities as a JSON attachment.
// GET /api/opportunities/export.json
func (h *OpportunityHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := export.JSON(h.sess.Latest())
	if err != nil {
		h.logger.Error("json export failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	serveAttachment(w, data, "application/json; charset=utf-8", "json")
}

func serveAttachment(w http.ResponseWriter, data []byte, contentType, ext string) {
	name := fmt.Sprintf("opportunities_%s.%s", time.Now().UTC().Format("20060102_150405"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
