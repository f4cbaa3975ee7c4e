package domain

import "time"

// OpportunityKind classifies the kind of detected discrepancy.
type OpportunityKind string

const (
	// OpportunitySureWin is an arbitrage where the combined outcome prices
	// guarantee profit regardless of the result.
	OpportunitySureWin OpportunityKind = "sure_win"
	// OpportunityOverpriced is a market whose combined outcome prices exceed
	// 1, implying a liquidity-provision or short opportunity.
	OpportunityOverpriced OpportunityKind = "overpriced"
	// OpportunityValueBet is a directional bet on an extreme probability
	// estimate. Carries real risk.
	OpportunityValueBet OpportunityKind = "value_bet"
	// OpportunityCrossExchangeSpread is a price difference for the same
	// instrument across two trading venues.
	OpportunityCrossExchangeSpread OpportunityKind = "cross_exchange_spread"
)

// RiskTier orders opportunities by how much can go wrong. RiskNone sorts
// before every other tier.
type RiskTier string

const (
	RiskNone   RiskTier = "none"
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
)

// PricePoint is one (source, price) observation backing an opportunity.
type PricePoint struct {
	Source string  `json:"source"`
	Price  float64 `json:"price"`
}

// Opportunity is one detected mispricing, produced by the classifier and
// consumed read-only by the ranker and notifiers.
type Opportunity struct {
	ID         string          `json:"id"`
	Kind       OpportunityKind `json:"kind"`
	Instrument string          `json:"instrument"`
	Strategy   string          `json:"strategy"`
	// Prices lists every (source, price) involved, in discovery order. For
	// cross-exchange spreads the first entry is the buy side and the last
	// the sell side.
	Prices []PricePoint `json:"prices"`
	// Investment is the sized stake, capped by both the configured maximum
	// and the liquidity fraction cap.
	Investment float64 `json:"investment"`
	// ExpectedProfit is the absolute profit in USD for Investment.
	ExpectedProfit float64 `json:"expected_profit"`
	// ProfitPct is always ExpectedProfit/Investment*100 and is at or above
	// the caller-supplied minimum threshold, otherwise the opportunity is
	// never created.
	ProfitPct    float64   `json:"profit_pct"`
	Risk         RiskTier  `json:"risk"`
	Liquidity    float64   `json:"liquidity"`
	ReferenceURL string    `json:"url,omitempty"`
	BuySource    string    `json:"buy_source,omitempty"`
	SellSource   string    `json:"sell_source,omitempty"`
	DetectedAt   time.Time `json:"detected_at"`
}
