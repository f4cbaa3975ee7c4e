package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/arbscan/internal/domain"
	"github.com/alanyoungcy/arbscan/internal/normalize"
	"github.com/alanyoungcy/arbscan/internal/session"
)

// MarketProvider lists raw prediction-market records from one provider API.
type MarketProvider interface {
	Name() string
	ListMarkets(ctx context.Context) ([]domain.RawRecord, error)
}

// TickerSource reports the observed mid-price for a spot symbol on one
// exchange.
type TickerSource interface {
	Name() string
	MidPrice(ctx context.Context, symbol string) (float64, error)
}

// Sink consumes a completed scan's ranked opportunity list. Sink failures are
// reported but never invalidate the computed list.
type Sink interface {
	Name() string
	Consume(ctx context.Context, opps []domain.Opportunity) error
}

// Config holds scan-engine parameters.
type Config struct {
	// Pairs are the spot instruments scanned across exchanges, e.g.
	// "BTC/USDT".
	Pairs []string
	// FetchWorkers bounds concurrent exchange fetches.
	FetchWorkers int
	// FetchTimeout bounds each individual source fetch.
	FetchTimeout time.Duration
	// FetchRetries is the number of extra attempts per source per scan.
	FetchRetries int
	// CacheTTL controls how long provider listings are reused from the
	// quote cache before refetching.
	CacheTTL time.Duration
}

// Scanner runs one full scan cycle: provider markets through the normalizer
// and classifier, spot pairs through the cross-exchange classifier, then
// ranking, session recording, and sink dispatch.
type Scanner struct {
	cfg        Config
	provider   MarketProvider
	format     normalize.SourceFormat
	normalizer *normalize.Normalizer
	classifier *Classifier
	spread     *SpreadClassifier
	tickers    []TickerSource
	sess       *session.Session
	cache      domain.QuoteCache // optional; nil means always fetch
	sinks      []Sink
	logger     *slog.Logger

	// scanMu serializes scans; overlapping triggers are rejected.
	scanMu sync.Mutex
}

// New creates a Scanner. provider/format may be nil to skip the
// prediction-market side; tickers may be empty to skip the spot side.
func New(
	cfg Config,
	provider MarketProvider,
	format normalize.SourceFormat,
	normalizer *normalize.Normalizer,
	classifier *Classifier,
	spread *SpreadClassifier,
	tickers []TickerSource,
	sess *session.Session,
	cache domain.QuoteCache,
	logger *slog.Logger,
) *Scanner {
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = 8
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	return &Scanner{
		cfg:        cfg,
		provider:   provider,
		format:     format,
		normalizer: normalizer,
		classifier: classifier,
		spread:     spread,
		tickers:    tickers,
		sess:       sess,
		cache:      cache,
		logger:     logger.With(slog.String("component", "scanner")),
	}
}

// AddSink registers a consumer for completed scans.
func (s *Scanner) AddSink(sink Sink) {
	s.sinks = append(s.sinks, sink)
}

// Scan runs one synchronous scan cycle and returns the ranked opportunity
// list. It returns ErrScanInProgress when another scan is already running,
// and ErrScanFailed only when no provider and no exchange yielded any data.
func (s *Scanner) Scan(ctx context.Context) ([]domain.Opportunity, error) {
	if !s.scanMu.TryLock() {
		return nil, domain.ErrScanInProgress
	}
	defer s.scanMu.Unlock()

	start := time.Now()
	var opps []domain.Opportunity

	marketOpps, marketErr := s.scanMarkets(ctx)
	opps = append(opps, marketOpps...)

	spotOpps, sourcesSeen := s.scanSpot(ctx)
	opps = append(opps, spotOpps...)

	spotDead := len(s.tickers) > 0 && sourcesSeen == 0
	switch {
	case marketErr != nil && len(s.tickers) == 0:
		return nil, fmt.Errorf("%w: %v", domain.ErrScanFailed, marketErr)
	case marketErr != nil && spotDead:
		return nil, fmt.Errorf("%w: provider and all exchanges unreachable: %v", domain.ErrScanFailed, marketErr)
	case s.provider == nil && spotDead:
		return nil, fmt.Errorf("%w: all exchanges unreachable", domain.ErrScanFailed)
	}

	Rank(opps)
	s.sess.Record(opps)

	s.logger.Info("scan complete",
		slog.Int("opportunities", len(opps)),
		slog.Duration("elapsed", time.Since(start)),
	)

	s.dispatch(ctx, opps)
	return opps, nil
}

// RunLoop re-runs the scan on a fixed interval until ctx is cancelled. Scan
// errors are logged, never fatal to the loop.
func (s *Scanner) RunLoop(ctx context.Context, interval time.Duration) error {
	// Run immediately on start.
	if _, err := s.Scan(ctx); err != nil {
		s.logger.Error("scan failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scan loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Scan(ctx); err != nil && !errors.Is(err, domain.ErrScanInProgress) {
				s.logger.Error("scan failed", slog.String("error", err.Error()))
			}
		}
	}
}

// scanMarkets fetches, normalizes, and classifies prediction-market records.
func (s *Scanner) scanMarkets(ctx context.Context) ([]domain.Opportunity, error) {
	if s.provider == nil || s.format == nil {
		return nil, nil
	}

	records, err := s.fetchRecords(ctx)
	if err != nil {
		s.logger.Warn("provider fetch failed",
			slog.String("provider", s.provider.Name()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	quotes := s.normalizer.NormalizeAll(records, s.format)
	opps := s.classifier.ClassifyAll(quotes)
	s.logger.Debug("market scan",
		slog.Int("records", len(records)),
		slog.Int("quotes", len(quotes)),
		slog.Int("opportunities", len(opps)),
	)
	return opps, nil
}

// fetchRecords returns provider records, consulting the quote cache first
// when one is configured.
func (s *Scanner) fetchRecords(ctx context.Context) ([]domain.RawRecord, error) {
	if s.cache != nil {
		if records, err := s.cache.GetRecords(ctx, s.provider.Name()); err == nil {
			return records, nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	records, err := s.provider.ListMarkets(fetchCtx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cfg.CacheTTL > 0 {
		if err := s.cache.SetRecords(ctx, s.provider.Name(), records, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("quote cache write failed", slog.String("error", err.Error()))
		}
	}
	return records, nil
}

// scanSpot fetches per-exchange prices for every configured pair with a
// bounded worker pool and classifies each pair's accumulated price map.
// It returns the opportunities and how many (pair, source) fetches succeeded.
func (s *Scanner) scanSpot(ctx context.Context) ([]domain.Opportunity, int) {
	if len(s.tickers) == 0 || len(s.cfg.Pairs) == 0 || s.spread == nil {
		return nil, 0
	}

	type observation struct {
		pair   string
		source string
		price  float64
	}

	var (
		mu  sync.Mutex
		obs []observation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FetchWorkers)

	for _, pair := range s.cfg.Pairs {
		for _, src := range s.tickers {
			pair, src := pair, src
			g.Go(func() error {
				price, err := s.fetchMid(gctx, src, pair)
				if err != nil {
					// A failed source is excluded for this pair, never
					// fatal to the scan.
					s.logger.Debug("no price from source",
						slog.String("exchange", src.Name()),
						slog.String("pair", pair),
						slog.String("error", err.Error()),
					)
					return nil
				}
				mu.Lock()
				obs = append(obs, observation{pair: pair, source: src.Name(), price: price})
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()

	byPair := make(map[string]map[string]float64, len(s.cfg.Pairs))
	for _, o := range obs {
		if byPair[o.pair] == nil {
			byPair[o.pair] = make(map[string]float64, len(s.tickers))
		}
		byPair[o.pair][o.source] = o.price
	}

	var opps []domain.Opportunity
	for _, pair := range s.cfg.Pairs {
		if opp, ok := s.spread.Classify(pair, byPair[pair]); ok {
			opps = append(opps, opp)
		}
	}
	return opps, len(obs)
}

// fetchMid queries one source with a per-attempt timeout and a bounded
// number of retries.
func (s *Scanner) fetchMid(ctx context.Context, src TickerSource, symbol string) (float64, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.FetchRetries; attempt++ {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		price, err := src.MidPrice(fetchCtx, symbol)
		cancel()
		if err == nil {
			return price, nil
		}
		lastErr = err
	}
	return 0, lastErr
}

// dispatch forwards the ranked list to every sink, isolating failures.
func (s *Scanner) dispatch(ctx context.Context, opps []domain.Opportunity) {
	for _, sink := range s.sinks {
		if err := sink.Consume(ctx, opps); err != nil {
			s.logger.Error("sink failed",
				slog.String("sink", sink.Name()),
				slog.String("error", err.Error()),
			)
		}
	}
}
