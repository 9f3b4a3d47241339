// Package agent implements the mint-approve-rotate-retire lifecycle for
// subsidiary signing keys (API wallets) bound to a master account.
package agent

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/shoyowada/hlgo/constants"
	"github.com/shoyowada/hlgo/types"
)

// Approver is the subset of client.Exchange the manager needs to mint a new
// agent: signing and submitting the approveAgent user-action under the
// master key.
type Approver interface {
	ApproveAgent(agentAddress string, agentName *string) (*types.DefaultResponse, error)
}

// Wallet is a single subsidiary signing key bound to the master account.
type Wallet struct {
	Name         string
	Address      string
	PrivateKey   *ecdsa.PrivateKey
	ApprovedAt   time.Time
	ExpiresAt    time.Time
	NonceCounter int64
}

// Config governs TTL, concurrency, and rotation margin.
type Config struct {
	TTL                      time.Duration
	MaxConcurrent            int
	RotateBeforeExpiryMargin time.Duration
}

// DefaultConfig returns conservative defaults for TTL, concurrency, and
// rotation margin (the venue does not mandate specific values).
func DefaultConfig() Config {
	return Config{
		TTL:                      constants.DefaultAgentTTLSeconds * time.Second,
		MaxConcurrent:            constants.DefaultAgentMaxConcurrent,
		RotateBeforeExpiryMargin: constants.DefaultAgentRotateMarginSeconds * time.Second,
	}
}

type nameState struct {
	mu      sync.Mutex
	wallets []*Wallet // oldest first
}

// Manager tracks one agent wallet set per logical name, minting and rotating
// them as needed.
type Manager struct {
	cfg      Config
	approver Approver
	nowFunc  func() time.Time

	mu    sync.Mutex
	names map[string]*nameState
}

// New constructs a Manager that approves new agents through approver.
func New(cfg Config, approver Approver) *Manager {
	return &Manager{
		cfg:      cfg,
		approver: approver,
		nowFunc:  time.Now,
		names:    make(map[string]*nameState),
	}
}

func (m *Manager) stateFor(name string) *nameState {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.names[name]
	if !ok {
		st = &nameState{}
		m.names[name] = st
	}
	return st
}

// GetOrRotate returns the current live agent wallet for name, minting and
// approving a fresh one if the current one is within its rotation margin of
// expiry (or there is none yet). Concurrent calls under the same name are
// serialized by a per-name mutex, so exactly one approval happens even
// under contention.
func (m *Manager) GetOrRotate(ctx context.Context, name string) (*Wallet, error) {
	st := m.stateFor(name)

	st.mu.Lock()
	defer st.mu.Unlock()

	now := m.nowFunc()
	if current := latest(st.wallets); current != nil && now.Before(current.ExpiresAt.Add(-m.cfg.RotateBeforeExpiryMargin)) {
		return current, nil
	}

	wallet, err := m.mint(ctx, name, now)
	if err != nil {
		return nil, err
	}

	st.wallets = append(st.wallets, wallet)
	if len(st.wallets) > m.cfg.MaxConcurrent {
		evict := len(st.wallets) - m.cfg.MaxConcurrent
		st.wallets = st.wallets[evict:]
	}

	return wallet, nil
}

func latest(wallets []*Wallet) *Wallet {
	if len(wallets) == 0 {
		return nil
	}
	return wallets[len(wallets)-1]
}

func (m *Manager) mint(ctx context.Context, name string, now time.Time) (*Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("agent: generate key for %q: %w", name, err)
	}
	address := crypto.PubkeyToAddress(privateKey.PublicKey).Hex()

	agentName := name
	if _, err := m.approver.ApproveAgent(address, &agentName); err != nil {
		return nil, fmt.Errorf("agent: approve %q: %w", name, err)
	}

	return &Wallet{
		Name:       name,
		Address:    address,
		PrivateKey: privateKey,
		ApprovedAt: now,
		ExpiresAt:  now.Add(m.cfg.TTL),
	}, nil
}

// Live returns every non-evicted wallet currently tracked for name, oldest
// first. The most recently minted entry is the one GetOrRotate would serve.
func (m *Manager) Live(name string) []*Wallet {
	st := m.stateFor(name)
	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]*Wallet, len(st.wallets))
	copy(out, st.wallets)
	return out
}

// Retire drops every tracked wallet for name, forcing the next GetOrRotate
// to mint and approve a fresh one.
func (m *Manager) Retire(name string) {
	st := m.stateFor(name)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.wallets = nil
}
