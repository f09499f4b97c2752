package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Token string

const (
	TokenBTC  Token = "BTC"
	TokenETH  Token = "ETH"
	TokenUSDT Token = "USDT"
)

func AllTokens() []Token {
	return []Token{TokenBTC, TokenETH, TokenUSDT}
}

type Config struct {
	// Backend
	APIBaseURL     string
	RequestTimeout time.Duration

	// Price feed (CoinGecko-compatible public API)
	PriceFeedURL      string
	PricePollInterval time.Duration

	// Local persistence
	SessionDBPath string

	// Logging — the TUI owns the terminal, so the logger writes to a file
	LogFile  string
	LogLevel string

	// A referral code passed via env is cached and attached to the next
	// registration.
	ReferralCode string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:     envOr("VAULTORA_API_URL", "https://api.vaultora.io"),
		RequestTimeout: time.Duration(envInt("REQUEST_TIMEOUT", 15)) * time.Second,

		PriceFeedURL:      envOr("PRICE_FEED_URL", "https://api.coingecko.com/api/v3"),
		PricePollInterval: time.Duration(envInt("PRICE_POLL_INTERVAL", 30)) * time.Second,

		SessionDBPath: envOr("SESSION_DB_PATH", "vaultora_session.db"),

		LogFile:  envOr("LOG_FILE", "vaultora.log"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		ReferralCode: os.Getenv("REFERRAL_CODE"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"VAULTORA_API_URL": c.APIBaseURL,
		"PRICE_FEED_URL":   c.PriceFeedURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s is not a valid base URL: %q", name, raw)
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
