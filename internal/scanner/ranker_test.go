package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

func TestRank_RiskFreeFirst(t *testing.T) {
	opps := []domain.Opportunity{
		{ID: "a", Kind: domain.OpportunityValueBet, Risk: domain.RiskMedium, ProfitPct: 25},
		{ID: "b", Kind: domain.OpportunitySureWin, Risk: domain.RiskNone, ProfitPct: 3},
		{ID: "c", Kind: domain.OpportunityOverpriced, Risk: domain.RiskLow, ProfitPct: 8},
		{ID: "d", Kind: domain.OpportunitySureWin, Risk: domain.RiskNone, ProfitPct: 6},
	}

	Rank(opps)

	require.Len(t, opps, 4)
	// Risk-free entries lead even when riskier ones promise more.
	assert.Equal(t, "d", opps[0].ID)
	assert.Equal(t, "b", opps[1].ID)
	assert.Equal(t, "a", opps[2].ID)
	assert.Equal(t, "c", opps[3].ID)
}

func TestRank_StableForEqualEntries(t *testing.T) {
	opps := []domain.Opportunity{
		{ID: "first", Risk: domain.RiskLow, ProfitPct: 5},
		{ID: "second", Risk: domain.RiskLow, ProfitPct: 5},
		{ID: "third", Risk: domain.RiskLow, ProfitPct: 5},
	}

	Rank(opps)

	assert.Equal(t, "first", opps[0].ID)
	assert.Equal(t, "second", opps[1].ID)
	assert.Equal(t, "third", opps[2].ID)
}

func TestRank_EmptyList(t *testing.T) {
	assert.NotPanics(t, func() { Rank(nil) })
	assert.NotPanics(t, func() { Rank([]domain.Opportunity{}) })
}
