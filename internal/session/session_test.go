package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

func opps(ids ...string) []domain.Opportunity {
	out := make([]domain.Opportunity, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Opportunity{ID: id, Kind: domain.OpportunitySureWin})
	}
	return out
}

func TestRecord_UpdatesCountersAndLatest(t *testing.T) {
	s := New(10)
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.Record(opps("a", "b"))
	s.Record(opps("c"))

	stats := s.Stats()
	assert.Equal(t, 2, stats.ScansRun)
	assert.Equal(t, 3, stats.OpportunitiesFound)
	assert.Equal(t, fixed, stats.LastScanAt)
	assert.Equal(t, 1, stats.LatestCount)
	assert.Equal(t, 3, stats.HistorySize)

	latest := s.Latest()
	require.Len(t, latest, 1)
	assert.Equal(t, "c", latest[0].ID)
}

func TestHistory_EvictsOldestFirst(t *testing.T) {
	s := New(3)

	s.Record(opps("a", "b"))
	s.Record(opps("c", "d"))

	hist := s.History()
	require.Len(t, hist, 3)
	// "a" fell off the front; order stays oldest first.
	assert.Equal(t, "b", hist[0].ID)
	assert.Equal(t, "c", hist[1].ID)
	assert.Equal(t, "d", hist[2].ID)
}

func TestHistory_BoundHoldsOverManyScans(t *testing.T) {
	s := New(5)

	for i := 0; i < 50; i++ {
		s.Record(opps(fmt.Sprintf("opp-%d", i)))
	}

	hist := s.History()
	require.Len(t, hist, 5)
	assert.Equal(t, "opp-45", hist[0].ID)
	assert.Equal(t, "opp-49", hist[4].ID)
	assert.Equal(t, 50, s.Stats().ScansRun)
}

func TestRecord_EmptyScanStillCounts(t *testing.T) {
	s := New(10)

	s.Record(nil)

	stats := s.Stats()
	assert.Equal(t, 1, stats.ScansRun)
	assert.Equal(t, 0, stats.OpportunitiesFound)
	assert.Empty(t, s.Latest())
}

func TestLatest_ReturnsCopy(t *testing.T) {
	s := New(10)
	s.Record(opps("a"))

	got := s.Latest()
	got[0].ID = "mutated"

	assert.Equal(t, "a", s.Latest()[0].ID)
}

func TestNoteAlert(t *testing.T) {
	s := New(10)

	s.NoteAlert()
	s.NoteAlert()

	assert.Equal(t, 2, s.Stats().AlertsSent)
}

func TestNew_DefaultBound(t *testing.T) {
	s := New(0)
	for i := 0; i < 250; i++ {
		s.Record(opps(fmt.Sprintf("opp-%d", i)))
	}
	assert.Equal(t, 200, s.Stats().HistorySize)
}
