package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	s3blob "github.com/alanyoungcy/arbscan/internal/blob/s3"
	"github.com/alanyoungcy/arbscan/internal/cache/redis"
	"github.com/alanyoungcy/arbscan/internal/config"
	"github.com/alanyoungcy/arbscan/internal/domain"
	"github.com/alanyoungcy/arbscan/internal/export"
	"github.com/alanyoungcy/arbscan/internal/normalize"
	"github.com/alanyoungcy/arbscan/internal/notify"
	"github.com/alanyoungcy/arbscan/internal/platform/exchange"
	"github.com/alanyoungcy/arbscan/internal/platform/polymarket"
	"github.com/alanyoungcy/arbscan/internal/scanner"
	"github.com/alanyoungcy/arbscan/internal/server/ws"
	"github.com/alanyoungcy/arbscan/internal/session"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Session *session.Session
	Scanner *scanner.Scanner

	// SignalBus is non-nil only when Redis is enabled; the WebSocket hub
	// bridges it to dashboard clients.
	SignalBus domain.SignalBus
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	sess := session.New(cfg.Scan.HistorySize)
	deps := &Dependencies{Session: sess}

	// --- Market provider and record format ---
	var (
		provider scanner.MarketProvider
		format   normalize.SourceFormat
	)
	switch strings.ToLower(cfg.Polymarket.Source) {
	case "clob":
		provider = polymarket.NewClobClient(cfg.Polymarket.ClobHost)
		format = normalize.ClobFormat{SiteURL: cfg.Polymarket.SiteURL}
	default:
		provider = polymarket.NewGammaClient(cfg.Polymarket.GammaHost, cfg.Polymarket.MarketLimit)
		format = normalize.GammaFormat{SiteURL: cfg.Polymarket.SiteURL}
	}

	// --- Spot exchanges ---
	venues, err := exchange.Build(cfg.Exchanges.Enabled)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: exchanges: %w", err)
	}
	tickers := make([]scanner.TickerSource, len(venues))
	for i, v := range venues {
		tickers[i] = v
	}

	// --- Redis quote cache and signal bus (optional) ---
	var quoteCache domain.QuoteCache
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		quoteCache = redis.NewQuoteCache(redisClient)
		deps.SignalBus = redis.NewSignalBus(redisClient)
	}

	// --- Scan engine ---
	classifier := scanner.NewClassifier(buildClassifierConfig(cfg), logger)
	spread := scanner.NewSpreadClassifier(cfg.Scan.MinProfitPct, cfg.Scan.MaxInvestment, logger)
	normalizer := normalize.NewNormalizer(logger)

	scan := scanner.New(
		scanner.Config{
			Pairs:        cfg.Scan.Pairs,
			FetchWorkers: cfg.Scan.FetchWorkers,
			FetchTimeout: 0, // scanner default
			FetchRetries: cfg.Scan.FetchRetries,
			CacheTTL:     cfg.Scan.CacheTTL.Duration,
		},
		provider,
		format,
		normalizer,
		classifier,
		spread,
		tickers,
		sess,
		quoteCache,
		logger,
	)
	deps.Scanner = scan

	// --- S3 archive sink (optional) ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		scan.AddSink(export.NewArchiver(s3blob.NewWriter(s3Client), cfg.S3.Prefix, logger))
	}

	// --- Alert channels ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if len(senders) > 0 {
		scan.AddSink(notify.NewAlertSink(notify.NewNotifier(senders, logger), sess))
	}
	if cfg.Notify.Email.Enabled {
		scan.AddSink(notify.NewEmailAlert(notify.EmailConfig{
			Host:      cfg.Notify.Email.SMTPHost,
			Port:      cfg.Notify.Email.SMTPPort,
			Sender:    cfg.Notify.Email.Sender,
			Password:  cfg.Notify.Email.Password,
			Recipient: cfg.Notify.Email.Recipient,
		}, sess, logger))
	}

	// --- Signal bus publisher (Redis path to the dashboard) ---
	if deps.SignalBus != nil {
		scan.AddSink(&busSink{bus: deps.SignalBus})
	}

	return deps, cleanup, nil
}

// buildClassifierConfig merges the scan bounds with the classifier thresholds.
func buildClassifierConfig(cfg *config.Config) scanner.ClassifierConfig {
	out := scanner.DefaultClassifierConfig()
	out.MinProfitPct = cfg.Scan.MinProfitPct
	out.MaxInvestment = cfg.Scan.MaxInvestment
	if cfg.Classifier.UnderpricedTotal > 0 {
		out.UnderpricedTotal = cfg.Classifier.UnderpricedTotal
	}
	if cfg.Classifier.OverpricedTotal > 0 {
		out.OverpricedTotal = cfg.Classifier.OverpricedTotal
	}
	if cfg.Classifier.OverpricedHaircut > 0 {
		out.OverpricedHaircut = cfg.Classifier.OverpricedHaircut
	}
	if cfg.Classifier.ValueBetLow > 0 {
		out.ValueBetLow = cfg.Classifier.ValueBetLow
	}
	if cfg.Classifier.ValueBetHigh > 0 {
		out.ValueBetHigh = cfg.Classifier.ValueBetHigh
	}
	if cfg.Classifier.ValueBetMinLiquidity > 0 {
		out.ValueBetMinLiquidity = cfg.Classifier.ValueBetMinLiquidity
	}
	if cfg.Classifier.ValueBetThresholdMult > 0 {
		out.ValueBetThresholdMult = cfg.Classifier.ValueBetThresholdMult
	}
	if cfg.Classifier.LiquidityFraction > 0 {
		out.LiquidityFraction = cfg.Classifier.LiquidityFraction
	}
	if cfg.Classifier.MinLiquidity > 0 {
		out.MinLiquidity = cfg.Classifier.MinLiquidity
	}
	return out
}

// busSink publishes each completed scan to the Redis opportunities channel so
// every process with a WebSocket hub can relay it.
type busSink struct {
	bus domain.SignalBus
}

func (b *busSink) Name() string { return "signal_bus" }

func (b *busSink) Consume(ctx context.Context, opps []domain.Opportunity) error {
	if opps == nil {
		opps = []domain.Opportunity{}
	}
	msg, err := json.Marshal(map[string]any{
		"type": "scan_result",
		"payload": map[string]any{
			"count":         len(opps),
			"opportunities": opps,
		},
	})
	if err != nil {
		return fmt.Errorf("app: encode scan result: %w", err)
	}
	return b.bus.Publish(ctx, ws.ChannelOpportunities, msg)
}

var _ scanner.Sink = (*busSink)(nil)
