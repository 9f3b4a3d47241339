package hlconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shoyowada/hlgo/constants"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() should validate, got: %v", err)
	}
	if cfg.ResolvedBaseURL() != constants.MainnetAPIURL {
		t.Fatalf("expected default base URL %q, got %q", constants.MainnetAPIURL, cfg.ResolvedBaseURL())
	}
}

func TestResolvedBaseURLPrefersExplicitOverride(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "https://example.test"
	if got := cfg.ResolvedBaseURL(); got != "https://example.test" {
		t.Fatalf("expected explicit base URL to win, got %q", got)
	}
}

func TestResolvedBaseURLTestnet(t *testing.T) {
	cfg := Default()
	cfg.Network = "testnet"
	if got := cfg.ResolvedBaseURL(); got != constants.TestnetAPIURL {
		t.Fatalf("expected testnet URL, got %q", got)
	}
}

func TestValidateRejectsUnknownNetwork(t *testing.T) {
	cfg := Default()
	cfg.Network = "devnet"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unknown network")
	}
}

func TestValidateRejectsNonPositiveRateLimit(t *testing.T) {
	cfg := Default()
	cfg.RateLimit.Capacity = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for zero rate_limit.capacity")
	}
}

func TestLoadReadsYAMLAndAppliesEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
network: testnet
http:
  timeout: 10s
rate_limit:
  capacity: 50
  refill_per_sec: 5
batch:
  interval: 200ms
  max_batch_size: 25
  prioritize_alo: false
  max_wait_time: 1s
agent:
  ttl: 1h
  max_concurrent: 2
  rotate_before_expiry_margin: 5m
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("HL_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network != "testnet" {
		t.Fatalf("expected network testnet, got %q", cfg.Network)
	}
	if cfg.HTTP.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Batch.MaxBatchSize != 25 || cfg.Batch.PrioritizeALO {
		t.Fatalf("unexpected batch config: %+v", cfg.Batch)
	}
	if cfg.Agent.MaxConcurrent != 2 {
		t.Fatalf("expected agent.max_concurrent=2, got %d", cfg.Agent.MaxConcurrent)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env override to win, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
