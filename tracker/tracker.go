// Package tracker maintains the in-memory order-tracking state the raw
// exchange client consults when a caller asks it to track submitted
// orders: one cloid maps to one TrackedOrder, whose status transitions
// one-way from Pending to either Submitted or Failed.
package tracker

import (
	"encoding/json"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/shoyowada/hlgo/types"
)

// Status is a TrackedOrder's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusFailed    Status = "failed"
)

// TrackedOrder records an order's journey from enqueue to terminal status.
type TrackedOrder struct {
	Cloid          types.Cloid     `json:"cloid"`
	Order          any             `json:"order"`
	Status         Status          `json:"status"`
	Response       json.RawMessage `json:"response,omitempty"`
	FailureReason  string          `json:"failureReason,omitempty"`
	SubmittedAtSec int64           `json:"submittedAtSec"`
}

var bucketOrders = []byte("tracked_orders")

// Tracker is an in-memory map[cloid]*TrackedOrder behind a RWMutex, with an
// optional bbolt-backed durable mirror.
type Tracker struct {
	mu     sync.RWMutex
	orders map[string]*TrackedOrder
	db     *bolt.DB
}

// New constructs an in-memory-only Tracker.
func New() *Tracker {
	return &Tracker{orders: make(map[string]*TrackedOrder)}
}

// NewDurable constructs a Tracker mirrored to the given bbolt database,
// recovering any previously persisted orders.
func NewDurable(db *bolt.DB) (*Tracker, error) {
	t := &Tracker{orders: make(map[string]*TrackedOrder), db: db}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketOrders)
		return err
	}); err != nil {
		return nil, err
	}

	if err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOrders)
		return b.ForEach(func(k, v []byte) error {
			var order TrackedOrder
			if err := json.Unmarshal(v, &order); err != nil {
				return err
			}
			t.orders[string(k)] = &order
			return nil
		})
	}); err != nil {
		return nil, err
	}

	return t, nil
}

// Insert records a new order in Pending status at the current time.
func (t *Tracker) Insert(cloid types.Cloid, order any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := &TrackedOrder{
		Cloid:          cloid,
		Order:          order,
		Status:         StatusPending,
		SubmittedAtSec: time.Now().Unix(),
	}
	t.orders[cloid.String()] = rec
	t.persist(cloid.String(), rec)
}

// UpdateSubmitted transitions a Pending order to Submitted, carrying the
// exchange's response. A no-op if the order is unknown or already terminal.
func (t *Tracker) UpdateSubmitted(cloid types.Cloid, response json.RawMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.orders[cloid.String()]
	if !ok || rec.Status != StatusPending {
		return
	}
	rec.Status = StatusSubmitted
	rec.Response = response
	t.persist(cloid.String(), rec)
}

// UpdateFailed transitions a Pending order to Failed, carrying the reason.
// A no-op if the order is unknown or already terminal.
func (t *Tracker) UpdateFailed(cloid types.Cloid, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.orders[cloid.String()]
	if !ok || rec.Status != StatusPending {
		return
	}
	rec.Status = StatusFailed
	rec.FailureReason = reason
	t.persist(cloid.String(), rec)
}

// persist mirrors rec to the durable store, if configured. Best-effort: a
// write failure here does not roll back the in-memory state, since the
// mirror is a recovery aid, not the source of truth.
func (t *Tracker) persist(key string, rec *TrackedOrder) {
	if t.db == nil {
		return
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_ = t.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOrders).Put([]byte(key), blob)
	})
}

// Get returns the tracked order for cloid, if any.
func (t *Tracker) Get(cloid types.Cloid) (*TrackedOrder, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.orders[cloid.String()]
	return rec, ok
}

// List returns every tracked order.
func (t *Tracker) List() []*TrackedOrder {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*TrackedOrder, 0, len(t.orders))
	for _, rec := range t.orders {
		out = append(out, rec)
	}
	return out
}

// ListByStatus returns every tracked order with the given status.
func (t *Tracker) ListByStatus(status Status) []*TrackedOrder {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []*TrackedOrder
	for _, rec := range t.orders {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out
}

// Clear discards every tracked order, including the durable mirror.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.orders = make(map[string]*TrackedOrder)
	if t.db == nil {
		return
	}
	_ = t.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketOrders); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketOrders)
		return err
	})
}
