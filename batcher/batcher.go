// Package batcher coalesces individual order and cancel requests into bulk
// submissions on a fixed interval, trading latency for fewer exchange
// round trips and better rate-limit headroom.
package batcher

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoyowada/hlgo/constants"
	"github.com/shoyowada/hlgo/types"
)

// ErrClosed is returned by Add* calls made after Close.
var ErrClosed = errors.New("batcher: closed")

// Config controls batching cadence and grouping.
type Config struct {
	Interval      time.Duration
	MaxBatchSize  int
	PrioritizeALO bool
	MaxWaitTime   time.Duration
}

// DefaultConfig returns the documented defaults: 100ms interval, batches of
// up to 100, ALO-first ordering, and a 500ms max wait.
func DefaultConfig() Config {
	return Config{
		Interval:      constants.DefaultBatchIntervalMs * time.Millisecond,
		MaxBatchSize:  constants.DefaultMaxBatchSize,
		PrioritizeALO: constants.DefaultPrioritizeALO,
		MaxWaitTime:   constants.DefaultMaxWaitTimeMs * time.Millisecond,
	}
}

// OrderSubmitter is the subset of client.Exchange the batcher needs. It is
// an interface, not a concrete type, so the batcher never imports client
// and managed can wire the two together without a cycle.
type OrderSubmitter interface {
	BulkOrders(orders []types.OrderRequest, builder *types.BuilderInfo) (*types.OrderResponse, error)
	BulkCancel(cancels []types.CancelRequest) (*types.CancelResponse, error)
}

type result struct {
	status *types.ExchangeResponseStatus
	err    error
}

// Handle is what Add* returns: either an already-resolved Immediate, or a
// Pending whose result arrives later on a channel.
type Handle interface {
	isHandle()
}

// Immediate is returned when a call bypasses batching entirely (e.g. the
// batcher is closed, or a future caller opts out per-entry).
type Immediate struct {
	Status *types.ExchangeResponseStatus
	Err    error
}

func (Immediate) isHandle() {}

// Pending is returned for an entry accepted into a batch; Wait blocks until
// that entry's sub-batch has been submitted and a status assigned.
type Pending struct {
	id uint64
	ch chan result
}

func (*Pending) isHandle() {}

// Wait blocks until the sub-batch containing this entry has been submitted,
// or ctx is cancelled first.
func (p *Pending) Wait(ctx context.Context) (*types.ExchangeResponseStatus, error) {
	select {
	case r := <-p.ch:
		return r.status, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ID identifies this pending entry for logging/debugging.
func (p *Pending) ID() uint64 { return p.id }

type orderEntry struct {
	order    types.OrderRequest
	nonce    int64
	enqueued time.Time
	ch       chan result
}

type cancelEntry struct {
	cancel   types.CancelRequest
	nonce    int64
	enqueued time.Time
	ch       chan result
}

// Batcher coalesces Add* calls into bulk submissions on a background loop.
type Batcher struct {
	cfg       Config
	submitter OrderSubmitter
	builder   *types.BuilderInfo
	log       zerolog.Logger

	mu      sync.Mutex
	orders  []*orderEntry
	cancels []*cancelEntry
	nextID  uint64
	closed  bool

	flush chan struct{}
	done  chan struct{}
	wg    sync.WaitGroup
}

// New starts the batcher's background loop and returns it. Close stops the
// loop and drains whatever is still queued.
func New(cfg Config, submitter OrderSubmitter, log zerolog.Logger) *Batcher {
	b := &Batcher{
		cfg:       cfg,
		submitter: submitter,
		log:       log,
		flush:     make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// WithBuilder attaches builder fee attribution to every bulk order submit.
func (b *Batcher) WithBuilder(builder *types.BuilderInfo) *Batcher {
	b.builder = builder
	return b
}

// AddOrder enqueues an order for the next batch tick and returns a handle
// for its eventual result. nonce is carried for caller bookkeeping; the
// wire nonce assigned to the actual submission is the submitter's own.
func (b *Batcher) AddOrder(order types.OrderRequest, nonce int64) Handle {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Immediate{Err: ErrClosed}
	}
	ch := make(chan result, 1)
	b.nextID++
	id := b.nextID
	b.orders = append(b.orders, &orderEntry{order: order, nonce: nonce, enqueued: time.Now(), ch: ch})
	b.mu.Unlock()

	b.signalFlush()
	return &Pending{id: id, ch: ch}
}

// AddCancel enqueues a cancel for the next batch tick.
func (b *Batcher) AddCancel(cancel types.CancelRequest, nonce int64) Handle {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Immediate{Err: ErrClosed}
	}
	ch := make(chan result, 1)
	b.nextID++
	id := b.nextID
	b.cancels = append(b.cancels, &cancelEntry{cancel: cancel, nonce: nonce, enqueued: time.Now(), ch: ch})
	b.mu.Unlock()

	b.signalFlush()
	return &Pending{id: id, ch: ch}
}

func (b *Batcher) signalFlush() {
	select {
	case b.flush <- struct{}{}:
	default:
	}
}

func (b *Batcher) run() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.tick()
		case <-b.flush:
			if b.oldestEntryAge() >= b.cfg.MaxWaitTime {
				b.tick()
			}
		case <-b.done:
			b.tick() // final drain
			return
		}
	}
}

func (b *Batcher) oldestEntryAge() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	var oldest time.Time
	if len(b.orders) > 0 {
		oldest = b.orders[0].enqueued
	}
	if len(b.cancels) > 0 && (oldest.IsZero() || b.cancels[0].enqueued.Before(oldest)) {
		oldest = b.cancels[0].enqueued
	}
	if oldest.IsZero() {
		return 0
	}
	return time.Since(oldest)
}

// tick drains the queues and submits whatever was pending.
func (b *Batcher) tick() {
	b.mu.Lock()
	orders := b.orders
	cancels := b.cancels
	b.orders = nil
	b.cancels = nil
	b.mu.Unlock()

	if len(orders) == 0 && len(cancels) == 0 {
		return
	}

	var alo, regular []*orderEntry
	for _, e := range orders {
		if isALO(e.order) {
			alo = append(alo, e)
		} else {
			regular = append(regular, e)
		}
	}

	if b.cfg.PrioritizeALO {
		b.submitOrderChunks(alo)
		b.submitOrderChunks(regular)
	} else {
		b.submitOrderChunks(append(alo, regular...))
	}

	b.submitCancelChunks(cancels)
}

func isALO(o types.OrderRequest) bool {
	return o.OrderType.Limit != nil && o.OrderType.Limit.Tif == types.TifAlo
}

func (b *Batcher) submitOrderChunks(entries []*orderEntry) {
	if len(entries) == 0 {
		return
	}
	for _, chunk := range chunkOrders(entries, b.cfg.MaxBatchSize) {
		reqs := make([]types.OrderRequest, len(chunk))
		for i, e := range chunk {
			reqs[i] = e.order
		}

		resp, err := b.submitter.BulkOrders(reqs, b.builder)
		status, statusErr := toStatus(resp, err)
		if statusErr != nil {
			b.log.Error().Err(statusErr).Int("count", len(chunk)).Msg("bulk order submit failed")
		}
		for _, e := range chunk {
			e.ch <- result{status: status, err: statusErr}
		}
	}
}

func (b *Batcher) submitCancelChunks(entries []*cancelEntry) {
	if len(entries) == 0 {
		return
	}
	for _, chunk := range chunkCancels(entries, b.cfg.MaxBatchSize) {
		reqs := make([]types.CancelRequest, len(chunk))
		for i, e := range chunk {
			reqs[i] = e.cancel
		}

		resp, err := b.submitter.BulkCancel(reqs)
		status, statusErr := toStatus(resp, err)
		if statusErr != nil {
			b.log.Error().Err(statusErr).Int("count", len(chunk)).Msg("bulk cancel submit failed")
		}
		for _, e := range chunk {
			e.ch <- result{status: status, err: statusErr}
		}
	}
}

func toStatus(resp any, err error) (*types.ExchangeResponseStatus, error) {
	if err != nil {
		return nil, err
	}
	body, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		return nil, marshalErr
	}
	return &types.ExchangeResponseStatus{Status: "ok", Response: body}, nil
}

func chunkOrders(entries []*orderEntry, size int) [][]*orderEntry {
	if size <= 0 {
		size = len(entries)
	}
	var chunks [][]*orderEntry
	for size > 0 && len(entries) > 0 {
		n := size
		if n > len(entries) {
			n = len(entries)
		}
		chunks = append(chunks, entries[:n])
		entries = entries[n:]
	}
	return chunks
}

func chunkCancels(entries []*cancelEntry, size int) [][]*cancelEntry {
	if size <= 0 {
		size = len(entries)
	}
	var chunks [][]*cancelEntry
	for size > 0 && len(entries) > 0 {
		n := size
		if n > len(entries) {
			n = len(entries)
		}
		chunks = append(chunks, entries[:n])
		entries = entries[n:]
	}
	return chunks
}

// Close stops the background loop after one final drain of whatever is
// still queued. Add* calls made after Close return Immediate{Err: ErrClosed}.
func (b *Batcher) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)
	b.wg.Wait()
}

// Pending returns the number of orders and cancels currently queued,
// awaiting the next tick.
func (b *Batcher) Pending() (orders, cancels int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.orders), len(b.cancels)
}
