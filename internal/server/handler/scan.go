package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/arbscan/internal/domain"
	"github.com/alanyoungcy/arbscan/internal/scanner"
)

// ScanHandler triggers on-demand scans.
type ScanHandler struct {
	scan   *scanner.Scanner
	logger *slog.Logger
}

// NewScanHandler creates a ScanHandler that drives the given scanner.
func NewScanHandler(scan *scanner.Scanner, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{
		scan:   scan,
		logger: logHandler(logger, "scan"),
	}
}

// Trigger runs a full scan synchronously and responds with the results.
// Returns 409 when a scan is already in flight.
// POST /api/scan/trigger
func (h *ScanHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	opps, err := h.scan.Scan(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrScanInProgress) {
			writeError(w, http.StatusConflict, "scan already in progress")
			return
		}
		h.logger.Error("triggered scan failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "scan failed: all sources unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":         len(opps),
		"opportunities": opps,
	})
}
