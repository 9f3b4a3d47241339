// Package nonce implements the venue's nonce discipline (component C3):
// time-based, unique, optionally per-signer counters, with a validity
// predicate matching the venue's sliding acceptance window.
package nonce

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/shoyowada/hlgo/constants"
)

// Manager generates nonces of the form (now_ms + (counter mod 1000)),
// either from a single process-wide counter or from one counter per signer
// address when isolation is enabled.
type Manager struct {
	isolate bool

	mu       sync.Mutex
	counters map[common.Address]int64
	global   int64

	// nowFunc is overridable for tests.
	nowFunc func() int64
}

// NewManager constructs a Manager. When isolateBySigner is true, Next
// requires an address and maintains an independent counter per address;
// when false, a single global counter is used and the address argument to
// Next is ignored.
func NewManager(isolateBySigner bool) *Manager {
	return &Manager{
		isolate:  isolateBySigner,
		counters: make(map[common.Address]int64),
		nowFunc:  func() int64 { return time.Now().UnixMilli() },
	}
}

// Next returns a new nonce for the given address (ignored when isolation is
// disabled). The time read is lock-free; the counter increment is the only
// critical section.
func (m *Manager) Next(addr common.Address) int64 {
	now := m.nowFunc()

	m.mu.Lock()
	var counter int64
	if m.isolate {
		counter = m.counters[addr]
		m.counters[addr] = counter + 1
	} else {
		counter = m.global
		m.global = counter + 1
	}
	m.mu.Unlock()

	offset := counter % 1000
	return now + offset
}

// Reset zeroes the counter for addr (isolated mode) or the global counter
// (non-isolated mode, addr ignored).
func (m *Manager) Reset(addr common.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isolate {
		m.counters[addr] = 0
	} else {
		m.global = 0
	}
}

// IsValid reports whether nonce falls within the venue's sliding acceptance
// window around now: strictly greater than now - 2 days, strictly less
// than now + 1 day.
func IsValid(nonceMs, nowMs int64) bool {
	return nonceMs > nowMs-constants.NonceValidityBackwardMs &&
		nonceMs < nowMs+constants.NonceValidityForwardMs
}

// IsValidNow checks validity against the wall clock.
func (m *Manager) IsValidNow(nonceMs int64) bool {
	return IsValid(nonceMs, m.nowFunc())
}
