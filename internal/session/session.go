// Package session holds per-process scan state: the bounded opportunity
// history, the last-scan timestamp, and counters. It replaces hidden
// framework session stores with an explicit struct owned by the caller.
package session

import (
	"sync"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// Snapshot is a read-only view of the session counters.
type Snapshot struct {
	ScansRun           int       `json:"scans_run"`
	OpportunitiesFound int       `json:"opportunities_found"`
	AlertsSent         int       `json:"alerts_sent"`
	LastScanAt         time.Time `json:"last_scan_at"`
	LatestCount        int       `json:"latest_count"`
	HistorySize        int       `json:"history_size"`
}

// Session is the scan-session state. Writes happen once per completed scan;
// reads may come concurrently from HTTP handlers, so every accessor is
// mutex-guarded.
type Session struct {
	mu         sync.RWMutex
	maxHistory int
	// history holds the most recent scans' opportunities, oldest first.
	history    []domain.Opportunity
	latest     []domain.Opportunity
	lastScanAt time.Time
	scansRun   int
	totalFound int
	alertsSent int
	now        func() time.Time
}

// New creates a Session whose history keeps at most maxHistory
// opportunities, evicting oldest first.
func New(maxHistory int) *Session {
	if maxHistory <= 0 {
		maxHistory = 200
	}
	return &Session{
		maxHistory: maxHistory,
		now:        time.Now,
	}
}

// Record appends a completed scan's ranked list, updating counters and
// evicting the oldest history entries beyond the bound.
func (s *Session) Record(opps []domain.Opportunity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scansRun++
	s.totalFound += len(opps)
	s.lastScanAt = s.now()
	s.latest = append([]domain.Opportunity(nil), opps...)

	s.history = append(s.history, opps...)
	if over := len(s.history) - s.maxHistory; over > 0 {
		s.history = append([]domain.Opportunity(nil), s.history[over:]...)
	}
}

// Latest returns a copy of the most recent scan's ranked list.
func (s *Session) Latest() []domain.Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Opportunity(nil), s.latest...)
}

// History returns a copy of the bounded opportunity history, oldest first.
func (s *Session) History() []domain.Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Opportunity(nil), s.history...)
}

// NoteAlert increments the sent-alert counter.
func (s *Session) NoteAlert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alertsSent++
}

// Stats returns the current counters.
func (s *Session) Stats() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ScansRun:           s.scansRun,
		OpportunitiesFound: s.totalFound,
		AlertsSent:         s.alertsSent,
		LastScanAt:         s.lastScanAt,
		LatestCount:        len(s.latest),
		HistorySize:        len(s.history),
	}
}
