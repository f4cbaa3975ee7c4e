package scanner

import (
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// SpreadClassifier detects cross-exchange price spreads for spot pairs.
type SpreadClassifier struct {
	// MinProfitPct is the minimum spread percentage to emit.
	MinProfitPct float64
	// MaxInvestment sizes the reported stake.
	MaxInvestment float64

	logger *slog.Logger
	now    func() time.Time
}

// NewSpreadClassifier creates a SpreadClassifier.
func NewSpreadClassifier(minProfitPct, maxInvestment float64, logger *slog.Logger) *SpreadClassifier {
	return &SpreadClassifier{
		MinProfitPct:  minProfitPct,
		MaxInvestment: maxInvestment,
		logger:        logger.With(slog.String("component", "spread_classifier")),
		now:           time.Now,
	}
}

// Classify takes the observed mid-prices per exchange for one instrument and
// returns an opportunity when at least two sources reported and the spread
// meets the threshold. Ties at the extreme prices break to the
// lexicographically first exchange name, keeping the choice stable within a
// scan regardless of map iteration order.
func (s *SpreadClassifier) Classify(symbol string, prices map[string]float64) (domain.Opportunity, bool) {
	if len(prices) < 2 {
		return domain.Opportunity{}, false
	}

	names := make([]string, 0, len(prices))
	for name, p := range prices {
		if p <= 0 {
			continue
		}
		names = append(names, name)
	}
	if len(names) < 2 {
		return domain.Opportunity{}, false
	}
	sort.Strings(names)

	buy, sell := names[0], names[0]
	for _, name := range names[1:] {
		if prices[name] < prices[buy] {
			buy = name
		}
		if prices[name] > prices[sell] {
			sell = name
		}
	}

	minPrice, maxPrice := prices[buy], prices[sell]
	pct := (maxPrice - minPrice) / minPrice * 100
	if pct < s.MinProfitPct {
		return domain.Opportunity{}, false
	}

	investment := s.MaxInvestment
	profit := investment * pct / 100

	points := make([]domain.PricePoint, 0, len(names))
	points = append(points, domain.PricePoint{Source: buy, Price: minPrice})
	for _, name := range names {
		if name == buy || name == sell {
			continue
		}
		points = append(points, domain.PricePoint{Source: name, Price: prices[name]})
	}
	points = append(points, domain.PricePoint{Source: sell, Price: maxPrice})

	opp := domain.Opportunity{
		ID:             uuid.NewString(),
		Kind:           domain.OpportunityCrossExchangeSpread,
		Instrument:     symbol,
		Strategy:       "Buy on " + buy + ", sell on " + sell,
		Prices:         points,
		Investment:     investment,
		ExpectedProfit: profit,
		ProfitPct:      pct,
		Risk:           domain.RiskLow,
		BuySource:      buy,
		SellSource:     sell,
		DetectedAt:     s.now(),
	}
	s.logger.Debug("cross-exchange spread detected",
		slog.String("symbol", symbol),
		slog.String("buy", buy),
		slog.String("sell", sell),
		slog.Float64("profit_pct", pct),
	)
	return opp, true
}
