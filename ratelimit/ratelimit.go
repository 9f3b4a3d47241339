// Package ratelimit implements the token-bucket gate shared across an HTTP
// endpoint (component C4). Capacity refills continuously; Check never
// blocks -- a denial reports how many tokens were available and how many
// were required so the caller can decide how to back off.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/shoyowada/hlgo/types"
)

// Bucket is a classical token bucket: capacity initial tokens, refilling
// continuously at refill/sec.
type Bucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
}

// NewBucket constructs a Bucket starting at full capacity.
func NewBucket(capacity, refillPerSec float64) *Bucket {
	return &Bucket{
		capacity:   capacity,
		refillRate: refillPerSec,
		tokens:     capacity,
		lastRefill: time.Now(),
	}
}

// Check refills by elapsed time, clamps to capacity, then attempts to
// deduct weight. Zero-weight calls always succeed. A denial returns a
// *types.Error of kind ErrRateLimited carrying the available amount (in
// whole tokens, rounded down) and the required amount; the caller is never
// blocked.
func (b *Bucket) Check(weight float64) error {
	if weight == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.lastRefill = now
	}

	if b.tokens < weight {
		return types.NewRateLimitedError(math.Floor(b.tokens), weight)
	}

	b.tokens -= weight
	return nil
}

// Available reports the current token count without consuming any,
// refilling first so the figure is current.
func (b *Bucket) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.lastRefill = now
	}
	return b.tokens
}

// Weights used by default for the raw exchange and info clients. Internal
// policy, not contractual -- callers may choose their own weights per call.
const (
	WeightPlaceOrder = 1
	WeightBulk       = 1
	WeightCancel     = 1
	WeightModify     = 2
	WeightInfo       = 1
	WeightInfoHeavy  = 2
)
