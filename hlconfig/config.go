// Package hlconfig loads the ambient configuration for a managed Hyperliquid
// client (network selection, HTTP/rate-limit/batch/agent tuning) from a
// YAML file with environment-variable overrides, the way
// 0xtitan6-polymarket-mm's internal/config package loads bot configuration.
// It never loads the signing wallet itself -- that stays an explicit
// *ecdsa.PrivateKey the caller constructs however it sees fit.
package hlconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/shoyowada/hlgo/constants"
)

// Config is the top-level configuration for a managed Hyperliquid client.
// It maps directly onto a YAML file; every field can also be set via an
// HL_-prefixed environment variable (HL_NETWORK, HL_HTTP_TIMEOUT, ...).
type Config struct {
	// Network selects "mainnet" or "testnet"; anything else is an error.
	Network string `mapstructure:"network"`
	// BaseURL overrides the network's default REST endpoint (for local
	// or staging deployments); empty uses the network default.
	BaseURL string `mapstructure:"base_url"`

	HTTP      HTTPConfig      `mapstructure:"http"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// HTTPConfig tunes the REST transport shared by the info and exchange clients.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig seeds the token bucket in front of every HTTP call.
type RateLimitConfig struct {
	Capacity     float64 `mapstructure:"capacity"`
	RefillPerSec float64 `mapstructure:"refill_per_sec"`
}

// BatchConfig tunes the order batcher (C8).
type BatchConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	MaxBatchSize  int           `mapstructure:"max_batch_size"`
	PrioritizeALO bool          `mapstructure:"prioritize_alo"`
	MaxWaitTime   time.Duration `mapstructure:"max_wait_time"`
}

// AgentConfig tunes the agent manager (C9).
type AgentConfig struct {
	TTL                      time.Duration `mapstructure:"ttl"`
	MaxConcurrent            int           `mapstructure:"max_concurrent"`
	RotateBeforeExpiryMargin time.Duration `mapstructure:"rotate_before_expiry_margin"`
}

// LoggingConfig feeds internal/hllog.Options.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Default returns mainnet configuration using every package's own
// documented defaults, the same values each package's own DefaultConfig
// already returns -- hlconfig only needs to override what a deployment
// wants to tune.
func Default() Config {
	return Config{
		Network: "mainnet",
		HTTP: HTTPConfig{
			Timeout: constants.DefaultTimeout * time.Second,
		},
		RateLimit: RateLimitConfig{
			Capacity:     constants.DefaultRateLimitCapacity,
			RefillPerSec: constants.DefaultRateLimitRefillPerSec,
		},
		Batch: BatchConfig{
			Interval:      constants.DefaultBatchIntervalMs * time.Millisecond,
			MaxBatchSize:  constants.DefaultMaxBatchSize,
			PrioritizeALO: constants.DefaultPrioritizeALO,
			MaxWaitTime:   constants.DefaultMaxWaitTimeMs * time.Millisecond,
		},
		Agent: AgentConfig{
			TTL:                      constants.DefaultAgentTTLSeconds * time.Second,
			MaxConcurrent:            constants.DefaultAgentMaxConcurrent,
			RotateBeforeExpiryMargin: constants.DefaultAgentRotateMarginSeconds * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file at path, falling back to Default() for anything
// the file doesn't set, with HL_* environment variables overriding both.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("HL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("hlconfig: read config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("hlconfig: unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values that would otherwise fail confusingly deep
// inside client/batcher/agent construction.
func (c *Config) Validate() error {
	switch c.Network {
	case "mainnet", "testnet":
	default:
		return fmt.Errorf("hlconfig: network must be \"mainnet\" or \"testnet\", got %q", c.Network)
	}
	if c.RateLimit.Capacity <= 0 {
		return fmt.Errorf("hlconfig: rate_limit.capacity must be > 0")
	}
	if c.RateLimit.RefillPerSec <= 0 {
		return fmt.Errorf("hlconfig: rate_limit.refill_per_sec must be > 0")
	}
	if c.Batch.MaxBatchSize <= 0 {
		return fmt.Errorf("hlconfig: batch.max_batch_size must be > 0")
	}
	if c.Agent.MaxConcurrent <= 0 {
		return fmt.Errorf("hlconfig: agent.max_concurrent must be > 0")
	}
	return nil
}

// ResolvedBaseURL returns BaseURL if set, otherwise the network default.
func (c *Config) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Network == "testnet" {
		return constants.TestnetAPIURL
	}
	return constants.MainnetAPIURL
}
