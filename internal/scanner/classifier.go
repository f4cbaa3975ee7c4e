// Package scanner holds the opportunity-detection core: the binary-outcome
// classifier, the cross-exchange spread classifier, the ranker, and the scan
// engine that drives them against live sources.
package scanner

import (
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// ClassifierConfig holds the tuned thresholds of the binary-outcome rules.
// The haircut and value-bet multipliers are domain-calibrated; keep them
// configurable rather than inlined.
type ClassifierConfig struct {
	// MinProfitPct is the caller-supplied minimum profit percentage T.
	MinProfitPct float64
	// MaxInvestment caps the stake per opportunity in USD.
	MaxInvestment float64
	// UnderpricedTotal: below this combined price both sides are underpriced.
	UnderpricedTotal float64
	// OverpricedTotal: above this combined price both sides are overpriced.
	OverpricedTotal float64
	// OverpricedHaircut discounts overpriced-branch profit for fees/slippage.
	OverpricedHaircut float64
	// ValueBetLow / ValueBetHigh bound the extreme-price band.
	ValueBetLow  float64
	ValueBetHigh float64
	// ValueBetMinLiquidity is the liquidity floor for value bets.
	ValueBetMinLiquidity float64
	// ValueBetThresholdMult raises the profit bar for value bets (high risk).
	ValueBetThresholdMult float64
	// LiquidityFraction is the share of quoted liquidity considered usable.
	LiquidityFraction float64
	// MinLiquidity skips instruments whose usable liquidity is below this
	// floor, guarding against zero-liquidity noise.
	MinLiquidity float64
}

// DefaultClassifierConfig returns the calibrated defaults.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MinProfitPct:          2.0,
		MaxInvestment:         100,
		UnderpricedTotal:      0.98,
		OverpricedTotal:       1.02,
		OverpricedHaircut:     0.8,
		ValueBetLow:           0.15,
		ValueBetHigh:          0.85,
		ValueBetMinLiquidity:  5000,
		ValueBetThresholdMult: 2.0,
		LiquidityFraction:     0.10,
		MinLiquidity:          10,
	}
}

// Classifier applies the binary-outcome rules to canonical quotes.
type Classifier struct {
	cfg    ClassifierConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(cfg ClassifierConfig, logger *slog.Logger) *Classifier {
	return &Classifier{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "classifier")),
		now:    time.Now,
	}
}

// Classify evaluates one binary-outcome quote and returns zero or one
// opportunity. The three branches are mutually exclusive and evaluated in
// order: underpriced total takes priority over the value-bet band even when
// a price also falls in the extreme range.
func (c *Classifier) Classify(q domain.CanonicalQuote) (domain.Opportunity, bool) {
	if !q.HasOutcomeB || q.OutcomeA <= 0 || q.OutcomeB <= 0 {
		return domain.Opportunity{}, false
	}

	available := math.Min(q.Liquidity*c.cfg.LiquidityFraction, c.cfg.MaxInvestment)
	if available < c.cfg.MinLiquidity {
		return domain.Opportunity{}, false
	}
	investment := math.Min(c.cfg.MaxInvestment, available)

	total := q.Total()
	switch {
	case total < c.cfg.UnderpricedTotal:
		return c.sureWin(q, total, investment)
	case total > c.cfg.OverpricedTotal:
		return c.overpriced(q, total, investment)
	case (q.OutcomeA < c.cfg.ValueBetLow || q.OutcomeA > c.cfg.ValueBetHigh) &&
		q.Liquidity > c.cfg.ValueBetMinLiquidity:
		return c.valueBet(q, investment)
	}
	return domain.Opportunity{}, false
}

// ClassifyAll runs Classify over a quote list, preserving discovery order.
func (c *Classifier) ClassifyAll(quotes []domain.CanonicalQuote) []domain.Opportunity {
	var opps []domain.Opportunity
	for _, q := range quotes {
		if opp, ok := c.Classify(q); ok {
			opps = append(opps, opp)
		}
	}
	return opps
}

// sureWin: both sides underpriced. Splitting the stake evenly across both
// outcomes guarantees min(shares) payout whichever side resolves.
func (c *Classifier) sureWin(q domain.CanonicalQuote, total, investment float64) (domain.Opportunity, bool) {
	sharesA := (investment / 2) / q.OutcomeA
	sharesB := (investment / 2) / q.OutcomeB
	guaranteed := math.Min(sharesA, sharesB)
	profit := guaranteed - investment
	pct := profit / investment * 100
	if pct < c.cfg.MinProfitPct {
		return domain.Opportunity{}, false
	}
	opp := c.newOpportunity(q, domain.OpportunitySureWin, "Buy both outcomes", investment, profit, pct, domain.RiskNone)
	return opp, true
}

// overpriced: combined price above 1. The haircut discounts the theoretical
// edge for fees and slippage.
func (c *Classifier) overpriced(q domain.CanonicalQuote, total, investment float64) (domain.Opportunity, bool) {
	profit := investment * (total - 1) * c.cfg.OverpricedHaircut
	pct := profit / investment * 100
	if pct < c.cfg.MinProfitPct {
		return domain.Opportunity{}, false
	}
	opp := c.newOpportunity(q, domain.OpportunityOverpriced, "Provide liquidity or short both sides", investment, profit, pct, domain.RiskLow)
	return opp, true
}

// valueBet: one side at an extreme price in a liquid market. Expected value
// anchors at 0.25 / 0.75 and the profit bar doubles because the bet carries
// directional risk.
func (c *Classifier) valueBet(q domain.CanonicalQuote, investment float64) (domain.Opportunity, bool) {
	expected := 0.75
	side := "second outcome"
	if q.OutcomeA < c.cfg.ValueBetLow {
		expected = 0.25
		side = "first outcome"
	}
	profit := investment * math.Abs(expected-q.OutcomeA)
	pct := profit / investment * 100
	if pct < c.cfg.MinProfitPct*c.cfg.ValueBetThresholdMult {
		return domain.Opportunity{}, false
	}
	opp := c.newOpportunity(q, domain.OpportunityValueBet, "Buy underpriced "+side, investment, profit, pct, domain.RiskMedium)
	return opp, true
}

func (c *Classifier) newOpportunity(q domain.CanonicalQuote, kind domain.OpportunityKind, strategy string, investment, profit, pct float64, risk domain.RiskTier) domain.Opportunity {
	return domain.Opportunity{
		ID:         uuid.NewString(),
		Kind:       kind,
		Instrument: q.Label,
		Strategy:   strategy,
		Prices: []domain.PricePoint{
			{Source: "outcome_a", Price: q.OutcomeA},
			{Source: "outcome_b", Price: q.OutcomeB},
		},
		Investment:     investment,
		ExpectedProfit: profit,
		ProfitPct:      pct,
		Risk:           risk,
		Liquidity:      q.Liquidity,
		ReferenceURL:   q.ReferenceURL,
		DetectedAt:     c.now(),
	}
}
