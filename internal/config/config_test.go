package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "full", cfg.Mode)
	assert.Equal(t, "gamma", cfg.Polymarket.Source)
	assert.Equal(t, 2.0, cfg.Scan.MinProfitPct)
	assert.Equal(t, 100.0, cfg.Scan.MaxInvestment)
	assert.Equal(t, 60*time.Second, cfg.Scan.Interval.Duration)
	assert.Equal(t, []string{"binance", "kraken", "okx", "kucoin"}, cfg.Exchanges.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.S3.Enabled)
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "monitor"
log_level = "debug"

[scan]
min_profit_pct = 1.5
max_investment = 250.0
interval = "30s"
pairs = ["SOL/USDT"]

[exchanges]
enabled = ["binance", "kraken"]

[notify.email]
enabled = true
smtp_host = "smtp.example.com"
sender = "alerts@example.com"
recipient = "ops@example.com"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "monitor", cfg.Mode)
	assert.Equal(t, 1.5, cfg.Scan.MinProfitPct)
	assert.Equal(t, 250.0, cfg.Scan.MaxInvestment)
	assert.Equal(t, 30*time.Second, cfg.Scan.Interval.Duration)
	assert.Equal(t, []string{"SOL/USDT"}, cfg.Scan.Pairs)
	assert.Equal(t, []string{"binance", "kraken"}, cfg.Exchanges.Enabled)
	assert.True(t, cfg.Notify.Email.Enabled)
	assert.Equal(t, 587, cfg.Notify.Email.SMTPPort)

	// Unmentioned sections keep defaults.
	assert.Equal(t, "https://gamma-api.polymarket.com", cfg.Polymarket.GammaHost)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`mode = "monitor"`), 0o600))

	t.Setenv("ARBSCAN_MODE", "scan")
	t.Setenv("ARBSCAN_SCAN_MIN_PROFIT_PCT", "3.5")
	t.Setenv("ARBSCAN_SCAN_INTERVAL", "45s")
	t.Setenv("ARBSCAN_EXCHANGES_ENABLED", "binance, okx")
	t.Setenv("ARBSCAN_REDIS_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "scan", cfg.Mode)
	assert.Equal(t, 3.5, cfg.Scan.MinProfitPct)
	assert.Equal(t, 45*time.Second, cfg.Scan.Interval.Duration)
	assert.Equal(t, []string{"binance", "okx"}, cfg.Exchanges.Enabled)
	assert.True(t, cfg.Redis.Enabled)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "bogus"
	cfg.LogLevel = "loud"
	cfg.Scan.MinProfitPct = 15 // above the accepted band
	cfg.Scan.MaxInvestment = 5 // below the accepted band
	cfg.Scan.Interval.Duration = time.Second
	cfg.Server.Port = 99999

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "unknown mode")
	assert.Contains(t, msg, "unknown log_level")
	assert.Contains(t, msg, "min_profit_pct")
	assert.Contains(t, msg, "max_investment")
	assert.Contains(t, msg, "interval")
	assert.Contains(t, msg, "port")
}

func TestValidate_EmailRequiresHostAndAddresses(t *testing.T) {
	cfg := Defaults()
	cfg.Notify.Email.Enabled = true

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp_host")
	assert.Contains(t, err.Error(), "email.sender")
}

func TestValidate_TelegramCredentialsPaired(t *testing.T) {
	cfg := Defaults()
	cfg.Notify.TelegramToken = "token"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram")

	cfg.Notify.TelegramChatID = "chat"
	assert.NoError(t, cfg.Validate())
}

func TestRedactedConfig_MasksSecrets(t *testing.T) {
	cfg := Defaults()
	cfg.Redis.Password = "redis-secret"
	cfg.S3.AccessKey = "AKIA123"
	cfg.S3.SecretKey = "s3-secret"
	cfg.Notify.Email.Password = "mail-secret"
	cfg.Notify.TelegramToken = "tg-token"
	cfg.Notify.DiscordWebhookURL = "https://discord.example/webhook"

	red := RedactedConfig(&cfg)

	assert.Equal(t, "***", red.Redis.Password)
	assert.Equal(t, "***", red.S3.AccessKey)
	assert.Equal(t, "***", red.S3.SecretKey)
	assert.Equal(t, "***", red.Notify.Email.Password)
	assert.Equal(t, "***", red.Notify.TelegramToken)
	assert.Equal(t, "***", red.Notify.DiscordWebhookURL)

	// The original is untouched, and slices are detached.
	assert.Equal(t, "redis-secret", cfg.Redis.Password)
	red.Exchanges.Enabled[0] = "mutated"
	assert.Equal(t, "binance", cfg.Exchanges.Enabled[0])
}
