// Package managed wraps the raw exchange client with the safety and
// performance features described for the managed trading path: automatic
// agent rotation, order batching, and the order tracker. It mirrors
// the builder-configured facade pattern of a managed provider sitting in
// front of a raw one, adding orthogonal concerns without touching the raw
// client's wire behavior.
package managed

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoyowada/hlgo/agent"
	"github.com/shoyowada/hlgo/batcher"
	"github.com/shoyowada/hlgo/client"
	"github.com/shoyowada/hlgo/constants"
	"github.com/shoyowada/hlgo/hlconfig"
	"github.com/shoyowada/hlgo/internal/hllog"
	"github.com/shoyowada/hlgo/tracker"
	"github.com/shoyowada/hlgo/types"
)

// Config controls which managed features are active.
type Config struct {
	BatchOrders      bool
	BatchConfig      batcher.Config
	AutoRotateAgents bool
	AgentConfig      agent.Config
	DefaultAgentName string
}

// DefaultConfig has batching and agent rotation both off; callers opt in
// through the Builder.
func DefaultConfig() Config {
	return Config{
		BatchConfig:      batcher.DefaultConfig(),
		AgentConfig:      agent.DefaultConfig(),
		DefaultAgentName: "default",
	}
}

// Exchange wraps a raw client.Exchange with the managed-path features.
type Exchange struct {
	raw     *client.Exchange
	cfg     Config
	batcher *batcher.Batcher
	agents  *agent.Manager
}

// Raw exposes the underlying client for advanced usage that bypasses
// batching and agent rotation.
func (e *Exchange) Raw() *client.Exchange { return e.raw }

// Builder constructs a managed Exchange with opt-in batching and agent
// rotation, following the same fluent configuration style as client's own
// options struct but across the three managed concerns at once.
type Builder struct {
	wallet       *ecdsa.PrivateKey
	baseURL      string
	timeout      time.Duration
	vaultAddress *string
	agentAddress *string
	log          zerolog.Logger
	cfg          Config
	tracker      *tracker.Tracker
	builderInfo  *types.BuilderInfo
	rlCapacity   float64
	rlRefill     float64
}

// NewBuilder starts a managed builder for wallet on the mainnet URL by
// default; call WithNetwork/WithBaseURL to change it.
func NewBuilder(wallet *ecdsa.PrivateKey) *Builder {
	return &Builder{
		wallet:  wallet,
		baseURL: constants.MainnetAPIURL,
		timeout: constants.DefaultTimeout * time.Second,
		log:     zerolog.Nop(),
		cfg:     DefaultConfig(),
	}
}

// WithRateLimit overrides the shared token bucket's capacity and refill
// rate (defaults come from constants.DefaultRateLimitCapacity/RefillPerSec).
func (b *Builder) WithRateLimit(capacity, refillPerSec float64) *Builder {
	b.rlCapacity = capacity
	b.rlRefill = refillPerSec
	return b
}

// WithNetwork selects mainnet or testnet by its well-known base URL.
func (b *Builder) WithNetwork(mainnet bool) *Builder {
	if mainnet {
		b.baseURL = constants.MainnetAPIURL
	} else {
		b.baseURL = constants.TestnetAPIURL
	}
	return b
}

// WithBaseURL overrides the base URL directly (for local/staging venues).
func (b *Builder) WithBaseURL(url string) *Builder {
	b.baseURL = url
	return b
}

// WithTimeout sets the HTTP client timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// WithVault routes orders through a vault address.
func (b *Builder) WithVault(vaultAddress string) *Builder {
	b.vaultAddress = &vaultAddress
	return b
}

// WithAgentAddress causes every L1 action the raw client signs to be
// wrapped in the agent envelope described in spec.md §4.5; use this when
// the wallet this Builder was constructed with is itself an approved
// agent key.
func (b *Builder) WithAgentAddress(agentAddress string) *Builder {
	b.agentAddress = &agentAddress
	return b
}

// WithBuilderFee attaches builder fee attribution to batched order submits.
func (b *Builder) WithBuilderFee(info *types.BuilderInfo) *Builder {
	b.builderInfo = info
	return b
}

// WithLogger sets the structured logger shared by the raw client, the
// batcher, and the agent manager.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.log = log
	return b
}

// WithTracker enables CLOID auto-generation and order-status tracking on
// the underlying raw client.
func (b *Builder) WithTracker(t *tracker.Tracker) *Builder {
	b.tracker = t
	return b
}

// WithAutoBatching turns on order batching at the given tick interval.
func (b *Builder) WithAutoBatching(interval time.Duration) *Builder {
	b.cfg.BatchOrders = true
	b.cfg.BatchConfig.Interval = interval
	return b
}

// WithBatchConfig replaces the whole batch configuration.
func (b *Builder) WithBatchConfig(cfg batcher.Config) *Builder {
	b.cfg.BatchOrders = true
	b.cfg.BatchConfig = cfg
	return b
}

// WithAgentRotation turns on automatic agent minting/rotation with the
// given TTL.
func (b *Builder) WithAgentRotation(ttl time.Duration) *Builder {
	b.cfg.AutoRotateAgents = true
	b.cfg.AgentConfig.TTL = ttl
	return b
}

// Build constructs the raw client and wires in whichever managed features
// were enabled.
func (b *Builder) Build() (*Exchange, error) {
	raw, err := client.NewExchange(&client.ExchangeOptions{
		Wallet:       b.wallet,
		BaseURL:      b.baseURL,
		Timeout:      b.timeout,
		VaultAddress: b.vaultAddress,
		AgentAddress: b.agentAddress,
		Log:          b.log,
		Tracker:      b.tracker,
	})
	if err != nil {
		return nil, fmt.Errorf("managed: build raw exchange: %w", err)
	}
	if b.rlCapacity > 0 && b.rlRefill > 0 {
		raw.SetRateLimit(b.rlCapacity, b.rlRefill)
	}

	ex := &Exchange{raw: raw, cfg: b.cfg}

	if b.cfg.BatchOrders {
		ex.batcher = batcher.New(b.cfg.BatchConfig, raw, b.log).WithBuilder(b.builderInfo)
	}
	if b.cfg.AutoRotateAgents {
		ex.agents = agent.New(b.cfg.AgentConfig, raw)
	}

	return ex, nil
}

// FromConfig builds a managed Exchange from an hlconfig.Config, wiring the
// network/base URL, HTTP timeout, rate limiter tuning, batcher tuning, and
// agent rotation tuning it carries, plus a logger built by internal/hllog
// from its Logging section. Batching and agent rotation are always enabled;
// to build with either feature off, use Builder directly instead.
func FromConfig(cfg *hlconfig.Config, wallet *ecdsa.PrivateKey) (*Exchange, error) {
	log := hllog.New(hllog.Options{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})

	b := NewBuilder(wallet).
		WithBaseURL(cfg.ResolvedBaseURL()).
		WithTimeout(cfg.HTTP.Timeout).
		WithLogger(log).
		WithRateLimit(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec).
		WithBatchConfig(batcher.Config{
			Interval:      cfg.Batch.Interval,
			MaxBatchSize:  cfg.Batch.MaxBatchSize,
			PrioritizeALO: cfg.Batch.PrioritizeALO,
			MaxWaitTime:   cfg.Batch.MaxWaitTime,
		}).
		WithAgentRotation(cfg.Agent.TTL)
	b.cfg.AgentConfig.MaxConcurrent = cfg.Agent.MaxConcurrent
	b.cfg.AgentConfig.RotateBeforeExpiryMargin = cfg.Agent.RotateBeforeExpiryMargin

	return b.Build()
}

// Mainnet builds a managed Exchange against mainnet with default settings.
func Mainnet(wallet *ecdsa.PrivateKey) (*Exchange, error) {
	return NewBuilder(wallet).WithNetwork(true).Build()
}

// Testnet builds a managed Exchange against testnet with default settings.
func Testnet(wallet *ecdsa.PrivateKey) (*Exchange, error) {
	return NewBuilder(wallet).WithNetwork(false).Build()
}

// PlaceOrder routes an order through whichever managed features are
// active. When agent rotation is on, it rotates the default agent first
// as a side effect (minting and approving a fresh subsidiary key when the
// current one is near expiry); the order itself still signs under the
// master wallet, since swapping signers mid-client is out of scope for the
// raw client's fixed-wallet design.
func (e *Exchange) PlaceOrder(order types.OrderRequest) (batcher.Handle, error) {
	if e.agents != nil {
		if _, err := e.agents.GetOrRotate(context.Background(), e.cfg.DefaultAgentName); err != nil {
			return nil, fmt.Errorf("managed: rotate agent: %w", err)
		}
	}

	if e.cfg.BatchOrders && e.batcher != nil {
		return e.batcher.AddOrder(order, time.Now().UnixMilli()), nil
	}

	resp, err := e.raw.Order(order.Coin, order.IsBuy, order.Sz, order.LimitPx, order.OrderType, order.ReduceOnly, order.Cloid, nil)
	if err != nil {
		return batcher.Immediate{Err: err}, nil
	}
	return batcher.Immediate{Status: toStatus(resp)}, nil
}

// PlaceOrderImmediate bypasses batching and places the order directly.
func (e *Exchange) PlaceOrderImmediate(order types.OrderRequest) (*types.OrderResponse, error) {
	return e.raw.Order(order.Coin, order.IsBuy, order.Sz, order.LimitPx, order.OrderType, order.ReduceOnly, order.Cloid, nil)
}

// CancelOrder routes a cancel through batching if enabled.
func (e *Exchange) CancelOrder(cancel types.CancelRequest) (batcher.Handle, error) {
	if e.cfg.BatchOrders && e.batcher != nil {
		return e.batcher.AddCancel(cancel, time.Now().UnixMilli()), nil
	}

	resp, err := e.raw.BulkCancel([]types.CancelRequest{cancel})
	if err != nil {
		return batcher.Immediate{Err: err}, nil
	}
	return batcher.Immediate{Status: toStatus(resp)}, nil
}

// AgentStatus returns every live agent wallet for the default agent name,
// or nil if agent rotation is not enabled.
func (e *Exchange) AgentStatus() []*agent.Wallet {
	if e.agents == nil {
		return nil
	}
	return e.agents.Live(e.cfg.DefaultAgentName)
}

// Shutdown stops the batcher, draining whatever is still queued.
func (e *Exchange) Shutdown() {
	if e.batcher != nil {
		e.batcher.Close()
	}
}

func toStatus(resp any) *types.ExchangeResponseStatus {
	body, err := json.Marshal(resp)
	if err != nil {
		return &types.ExchangeResponseStatus{Status: "err", Response: json.RawMessage(`"` + err.Error() + `"`)}
	}
	return &types.ExchangeResponseStatus{Status: "ok", Response: body}
}
