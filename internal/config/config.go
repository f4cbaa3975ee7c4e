// Package config defines the top-level configuration for the arbitrage
// scanner and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by ARBSCAN_* environment variables.
type Config struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
	Exchanges  ExchangesConfig  `toml:"exchanges"`
	Scan       ScanConfig       `toml:"scan"`
	Classifier ClassifierConfig `toml:"classifier"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Server     ServerConfig     `toml:"server"`
	Notify     NotifyConfig     `toml:"notify"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// PolymarketConfig holds Polymarket API endpoints and listing parameters.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
	ClobHost  string `toml:"clob_host"`
	// SiteURL is the public market page root used to build reference links.
	SiteURL     string `toml:"site_url"`
	MarketLimit int    `toml:"market_limit"`
	// Source selects which listing API feeds the market scan: "gamma" or
	// "clob".
	Source string `toml:"source"`
}

// ExchangesConfig selects the spot exchanges queried for cross-exchange
// spreads.
type ExchangesConfig struct {
	Enabled []string `toml:"enabled"`
}

// ScanConfig holds the scan-engine parameters.
type ScanConfig struct {
	// MinProfitPct is the minimum profit percentage an opportunity must
	// clear to be reported. Accepted range 0.1-10.0.
	MinProfitPct float64 `toml:"min_profit_pct"`
	// MaxInvestment caps the stake assumed per opportunity in USD.
	// Accepted range 10-10000.
	MaxInvestment float64 `toml:"max_investment"`
	// Interval is the delay between periodic scans. Accepted range 10s-300s.
	Interval duration `toml:"interval"`
	// Pairs are the spot instruments scanned across exchanges.
	Pairs        []string `toml:"pairs"`
	HistorySize  int      `toml:"history_size"`
	FetchWorkers int      `toml:"fetch_workers"`
	FetchRetries int      `toml:"fetch_retries"`
	CacheTTL     duration `toml:"cache_ttl"`
}

// ClassifierConfig exposes the pricing thresholds. Zero values fall back to
// the classifier defaults.
type ClassifierConfig struct {
	UnderpricedTotal      float64 `toml:"underpriced_total"`
	OverpricedTotal       float64 `toml:"overpriced_total"`
	OverpricedHaircut     float64 `toml:"overpriced_haircut"`
	ValueBetLow           float64 `toml:"value_bet_low"`
	ValueBetHigh          float64 `toml:"value_bet_high"`
	ValueBetMinLiquidity  float64 `toml:"value_bet_min_liquidity"`
	ValueBetThresholdMult float64 `toml:"value_bet_threshold_mult"`
	LiquidityFraction     float64 `toml:"liquidity_fraction"`
	MinLiquidity          float64 `toml:"min_liquidity"`
}

// RedisConfig holds Redis connection parameters for the quote cache and the
// dashboard signal bus.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds object-storage parameters for the scan archiver.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	Prefix         string `toml:"prefix"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "30s", "5m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// EmailConfig holds SMTP alert parameters.
type EmailConfig struct {
	Enabled   bool   `toml:"enabled"`
	SMTPHost  string `toml:"smtp_host"`
	SMTPPort  int    `toml:"smtp_port"`
	Sender    string `toml:"sender"`
	Password  string `toml:"password"`
	Recipient string `toml:"recipient"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	Email             EmailConfig `toml:"email"`
	TelegramToken     string      `toml:"telegram_token"`
	TelegramChatID    string      `toml:"telegram_chat_id"`
	DiscordWebhookURL string      `toml:"discord_webhook_url"`
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Polymarket: PolymarketConfig{
			GammaHost:   "https://gamma-api.polymarket.com",
			ClobHost:    "https://clob.polymarket.com",
			SiteURL:     "https://polymarket.com",
			MarketLimit: 50,
			Source:      "gamma",
		},
		Exchanges: ExchangesConfig{
			Enabled: []string{"binance", "kraken", "okx", "kucoin"},
		},
		Scan: ScanConfig{
			MinProfitPct:  2.0,
			MaxInvestment: 100.0,
			Interval:      duration{60 * time.Second},
			Pairs:         []string{"BTC/USDT", "ETH/USDT"},
			HistorySize:   200,
			FetchWorkers:  8,
			FetchRetries:  1,
			CacheTTL:      duration{30 * time.Second},
		},
		Classifier: ClassifierConfig{
			UnderpricedTotal:      0.98,
			OverpricedTotal:       1.02,
			OverpricedHaircut:     0.8,
			ValueBetLow:           0.15,
			ValueBetHigh:          0.85,
			ValueBetMinLiquidity:  5000,
			ValueBetThresholdMult: 2.0,
			LiquidityFraction:     0.10,
			MinLiquidity:          10,
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "arbscan-data",
			Prefix:         "scans",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Email: EmailConfig{
				SMTPPort: 587,
			},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"scan":    true,
	"monitor": true,
	"server":  true,
	"full":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validSources enumerates the accepted values for PolymarketConfig.Source.
var validSources = map[string]bool{
	"gamma": true,
	"clob":  true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: scan, monitor, server, full)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Polymarket
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.ClobHost == "" {
		errs = append(errs, "polymarket: clob_host must not be empty")
	}
	if !validSources[strings.ToLower(c.Polymarket.Source)] {
		errs = append(errs, fmt.Sprintf("polymarket: unknown source %q (valid: gamma, clob)", c.Polymarket.Source))
	}
	if c.Polymarket.MarketLimit < 1 || c.Polymarket.MarketLimit > 500 {
		errs = append(errs, fmt.Sprintf("polymarket: market_limit must be 1-500, got %d", c.Polymarket.MarketLimit))
	}

	// Scan
	if c.Scan.MinProfitPct < 0.1 || c.Scan.MinProfitPct > 10.0 {
		errs = append(errs, fmt.Sprintf("scan: min_profit_pct must be 0.1-10.0, got %g", c.Scan.MinProfitPct))
	}
	if c.Scan.MaxInvestment < 10 || c.Scan.MaxInvestment > 10000 {
		errs = append(errs, fmt.Sprintf("scan: max_investment must be 10-10000, got %g", c.Scan.MaxInvestment))
	}
	if c.Scan.Interval.Duration < 10*time.Second || c.Scan.Interval.Duration > 300*time.Second {
		errs = append(errs, fmt.Sprintf("scan: interval must be 10s-300s, got %s", c.Scan.Interval.Duration))
	}
	if c.Scan.HistorySize < 1 {
		errs = append(errs, "scan: history_size must be >= 1")
	}
	if c.Scan.FetchWorkers < 1 {
		errs = append(errs, "scan: fetch_workers must be >= 1")
	}
	if c.Scan.FetchRetries < 0 {
		errs = append(errs, "scan: fetch_retries must be >= 0")
	}

	// Classifier
	if c.Classifier.UnderpricedTotal <= 0 || c.Classifier.UnderpricedTotal >= c.Classifier.OverpricedTotal {
		errs = append(errs, "classifier: underpriced_total must be > 0 and below overpriced_total")
	}
	if c.Classifier.OverpricedHaircut <= 0 || c.Classifier.OverpricedHaircut > 1 {
		errs = append(errs, "classifier: overpriced_haircut must be in (0, 1]")
	}
	if c.Classifier.ValueBetLow <= 0 || c.Classifier.ValueBetLow >= c.Classifier.ValueBetHigh || c.Classifier.ValueBetHigh >= 1 {
		errs = append(errs, "classifier: value bet band must satisfy 0 < low < high < 1")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// S3
	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when enabled")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when enabled")
		}
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	// Email
	if c.Notify.Email.Enabled {
		if c.Notify.Email.SMTPHost == "" {
			errs = append(errs, "notify: email.smtp_host must not be empty when enabled")
		}
		if c.Notify.Email.Sender == "" || c.Notify.Email.Recipient == "" {
			errs = append(errs, "notify: email.sender and email.recipient must be set when enabled")
		}
	}

	// Telegram credentials come in pairs.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
