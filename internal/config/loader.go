package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ARBSCAN_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// LoadDefaults returns the built-in defaults with environment overrides
// applied, for running without a config file.
func LoadDefaults() *Config {
	cfg := Defaults()
	_ = godotenv.Load()
	applyEnvOverrides(&cfg)
	return &cfg
}

// applyEnvOverrides reads well-known ARBSCAN_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "ARBSCAN_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Polymarket.ClobHost, "ARBSCAN_POLYMARKET_CLOB_HOST")
	setStr(&cfg.Polymarket.SiteURL, "ARBSCAN_POLYMARKET_SITE_URL")
	setInt(&cfg.Polymarket.MarketLimit, "ARBSCAN_POLYMARKET_MARKET_LIMIT")
	setStr(&cfg.Polymarket.Source, "ARBSCAN_POLYMARKET_SOURCE")

	// ── Exchanges ──
	setStringSlice(&cfg.Exchanges.Enabled, "ARBSCAN_EXCHANGES_ENABLED")

	// ── Scan ──
	setFloat64(&cfg.Scan.MinProfitPct, "ARBSCAN_SCAN_MIN_PROFIT_PCT")
	setFloat64(&cfg.Scan.MaxInvestment, "ARBSCAN_SCAN_MAX_INVESTMENT")
	setDuration(&cfg.Scan.Interval, "ARBSCAN_SCAN_INTERVAL")
	setStringSlice(&cfg.Scan.Pairs, "ARBSCAN_SCAN_PAIRS")
	setInt(&cfg.Scan.HistorySize, "ARBSCAN_SCAN_HISTORY_SIZE")
	setInt(&cfg.Scan.FetchWorkers, "ARBSCAN_SCAN_FETCH_WORKERS")
	setInt(&cfg.Scan.FetchRetries, "ARBSCAN_SCAN_FETCH_RETRIES")
	setDuration(&cfg.Scan.CacheTTL, "ARBSCAN_SCAN_CACHE_TTL")

	// ── Classifier ──
	setFloat64(&cfg.Classifier.UnderpricedTotal, "ARBSCAN_CLASSIFIER_UNDERPRICED_TOTAL")
	setFloat64(&cfg.Classifier.OverpricedTotal, "ARBSCAN_CLASSIFIER_OVERPRICED_TOTAL")
	setFloat64(&cfg.Classifier.OverpricedHaircut, "ARBSCAN_CLASSIFIER_OVERPRICED_HAIRCUT")
	setFloat64(&cfg.Classifier.ValueBetLow, "ARBSCAN_CLASSIFIER_VALUE_BET_LOW")
	setFloat64(&cfg.Classifier.ValueBetHigh, "ARBSCAN_CLASSIFIER_VALUE_BET_HIGH")
	setFloat64(&cfg.Classifier.ValueBetMinLiquidity, "ARBSCAN_CLASSIFIER_VALUE_BET_MIN_LIQUIDITY")
	setFloat64(&cfg.Classifier.ValueBetThresholdMult, "ARBSCAN_CLASSIFIER_VALUE_BET_THRESHOLD_MULT")
	setFloat64(&cfg.Classifier.LiquidityFraction, "ARBSCAN_CLASSIFIER_LIQUIDITY_FRACTION")
	setFloat64(&cfg.Classifier.MinLiquidity, "ARBSCAN_CLASSIFIER_MIN_LIQUIDITY")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "ARBSCAN_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "ARBSCAN_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ARBSCAN_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ARBSCAN_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "ARBSCAN_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "ARBSCAN_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "ARBSCAN_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "ARBSCAN_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "ARBSCAN_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "ARBSCAN_S3_REGION")
	setStr(&cfg.S3.Bucket, "ARBSCAN_S3_BUCKET")
	setStr(&cfg.S3.Prefix, "ARBSCAN_S3_PREFIX")
	setStr(&cfg.S3.AccessKey, "ARBSCAN_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "ARBSCAN_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "ARBSCAN_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "ARBSCAN_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "ARBSCAN_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "ARBSCAN_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "ARBSCAN_SERVER_CORS_ORIGINS")

	// ── Notify ──
	setBool(&cfg.Notify.Email.Enabled, "ARBSCAN_NOTIFY_EMAIL_ENABLED")
	setStr(&cfg.Notify.Email.SMTPHost, "ARBSCAN_NOTIFY_EMAIL_SMTP_HOST")
	setInt(&cfg.Notify.Email.SMTPPort, "ARBSCAN_NOTIFY_EMAIL_SMTP_PORT")
	setStr(&cfg.Notify.Email.Sender, "ARBSCAN_NOTIFY_EMAIL_SENDER")
	setStr(&cfg.Notify.Email.Password, "ARBSCAN_NOTIFY_EMAIL_PASSWORD")
	setStr(&cfg.Notify.Email.Recipient, "ARBSCAN_NOTIFY_EMAIL_RECIPIENT")
	setStr(&cfg.Notify.TelegramToken, "ARBSCAN_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "ARBSCAN_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "ARBSCAN_NOTIFY_DISCORD_WEBHOOK_URL")

	// ── Top-level ──
	setStr(&cfg.Mode, "ARBSCAN_MODE")
	setStr(&cfg.LogLevel, "ARBSCAN_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
