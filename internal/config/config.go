// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Polymarket  VenueConfig       `mapstructure:"polymarket"`
	Kalshi      VenueConfig       `mapstructure:"kalshi"`
	DexScreener DexScreenerConfig `mapstructure:"dexscreener"`
	Scan        ScanConfig        `mapstructure:"scan"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// VenueConfig holds one prediction-market venue's API settings.
type VenueConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DexScreenerConfig holds pair-aggregator API settings.
type DexScreenerConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	ChainID           string        `mapstructure:"chain_id"`
}

// ScanConfig holds default analysis thresholds. These seed per-request
// options; callers may still override both per call.
type ScanConfig struct {
	MinSimilarity float64 `mapstructure:"min_similarity"`
	MinSpread     float64 `mapstructure:"min_spread"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// Load reads configuration from an optional file plus CASCREENER_* env vars,
// layered over defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CASCREENER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("polymarket.base_url", "https://gamma-api.polymarket.com")
	v.SetDefault("polymarket.timeout", 10*time.Second)
	v.SetDefault("kalshi.base_url", "https://api.elections.kalshi.com/trade-api/v2")
	v.SetDefault("kalshi.timeout", 10*time.Second)

	v.SetDefault("dexscreener.base_url", "https://api.dexscreener.com")
	v.SetDefault("dexscreener.timeout", 10*time.Second)
	v.SetDefault("dexscreener.requests_per_minute", 300)
	v.SetDefault("dexscreener.cache_ttl", 30*time.Second)
	v.SetDefault("dexscreener.chain_id", "solana")

	v.SetDefault("scan.min_similarity", 0.75)
	v.SetDefault("scan.min_spread", 0.01)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Scan.MinSimilarity < 0 || c.Scan.MinSimilarity > 1 {
		return fmt.Errorf("scan.min_similarity must be in [0,1], got %f", c.Scan.MinSimilarity)
	}
	if c.Scan.MinSpread < 0 || c.Scan.MinSpread > 1 {
		return fmt.Errorf("scan.min_spread must be in [0,1], got %f", c.Scan.MinSpread)
	}
	if c.DexScreener.RequestsPerMinute <= 0 {
		return fmt.Errorf("dexscreener.requests_per_minute must be positive, got %d", c.DexScreener.RequestsPerMinute)
	}
	if c.DexScreener.ChainID == "" {
		return fmt.Errorf("dexscreener.chain_id must not be empty")
	}
	return nil
}
