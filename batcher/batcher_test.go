package batcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoyowada/hlgo/types"
)

type fakeSubmitter struct {
	mu          sync.Mutex
	orderCalls  [][]types.OrderRequest
	cancelCalls [][]types.CancelRequest
}

func (f *fakeSubmitter) BulkOrders(orders []types.OrderRequest, _ *types.BuilderInfo) (*types.OrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderCalls = append(f.orderCalls, orders)
	statuses := make([]types.OrderStatus, len(orders))
	for i := range orders {
		statuses[i] = types.OrderStatus{Resting: &types.RestingOrder{Oid: i + 1}}
	}
	return &types.OrderResponse{Type: "order", Data: types.OrderDataBody{Statuses: statuses}}, nil
}

func (f *fakeSubmitter) BulkCancel(cancels []types.CancelRequest) (*types.CancelResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls = append(f.cancelCalls, cancels)
	return &types.CancelResponse{Type: "cancel"}, nil
}

func (f *fakeSubmitter) callCounts() (orders, cancels int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orderCalls), len(f.cancelCalls)
}

func gtcOrder(coin string) types.OrderRequest {
	return types.OrderRequest{
		Coin:      coin,
		IsBuy:     true,
		Sz:        1,
		LimitPx:   100,
		OrderType: types.OrderType{Limit: &types.LimitOrderType{Tif: types.TifGtc}},
	}
}

func aloOrder(coin string) types.OrderRequest {
	return types.OrderRequest{
		Coin:      coin,
		IsBuy:     true,
		Sz:        1,
		LimitPx:   100,
		OrderType: types.OrderType{Limit: &types.LimitOrderType{Tif: types.TifAlo}},
	}
}

func TestBatcherCoalescesOrdersOnTick(t *testing.T) {
	sub := &fakeSubmitter{}
	cfg := Config{Interval: 20 * time.Millisecond, MaxBatchSize: 100, PrioritizeALO: true, MaxWaitTime: time.Second}
	b := New(cfg, sub, zerolog.Nop())
	defer b.Close()

	h1 := b.AddOrder(gtcOrder("ETH"), 1)
	h2 := b.AddOrder(gtcOrder("BTC"), 2)

	p1, ok := h1.(*Pending)
	if !ok {
		t.Fatalf("expected *Pending, got %T", h1)
	}
	p2, ok := h2.(*Pending)
	if !ok {
		t.Fatalf("expected *Pending, got %T", h2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	s1, err := p1.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	s2, err := p2.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if s1 != s2 {
		t.Error("expected both handles in the same sub-batch to share one status")
	}

	orderCalls, _ := sub.callCounts()
	if orderCalls != 1 {
		t.Fatalf("expected exactly one bulk order submit, got %d", orderCalls)
	}
}

func TestBatcherPrioritizesALOBeforeRegular(t *testing.T) {
	sub := &fakeSubmitter{}
	cfg := Config{Interval: 20 * time.Millisecond, MaxBatchSize: 100, PrioritizeALO: true, MaxWaitTime: time.Second}
	b := New(cfg, sub, zerolog.Nop())
	defer b.Close()

	hAlo := b.AddOrder(aloOrder("ETH"), 1)
	hGtc := b.AddOrder(gtcOrder("BTC"), 2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := hAlo.(*Pending).Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if _, err := hGtc.(*Pending).Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if len(sub.orderCalls) != 2 {
		t.Fatalf("expected ALO and Regular to submit as separate sub-batches, got %d calls", len(sub.orderCalls))
	}
	if sub.orderCalls[0][0].Coin != "ETH" {
		t.Errorf("expected the ALO sub-batch to submit first, got coin %s", sub.orderCalls[0][0].Coin)
	}
}

func TestBatcherChunksAtMaxBatchSize(t *testing.T) {
	sub := &fakeSubmitter{}
	cfg := Config{Interval: 20 * time.Millisecond, MaxBatchSize: 2, PrioritizeALO: true, MaxWaitTime: time.Second}
	b := New(cfg, sub, zerolog.Nop())
	defer b.Close()

	var handles []Handle
	for i := 0; i < 5; i++ {
		handles = append(handles, b.AddOrder(gtcOrder("ETH"), int64(i)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, h := range handles {
		if _, err := h.(*Pending).Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	orderCalls, _ := sub.callCounts()
	if orderCalls != 3 { // 2 + 2 + 1
		t.Fatalf("expected 3 chunked submits for 5 entries at size 2, got %d", orderCalls)
	}
}

func TestBatcherAddAfterCloseIsImmediateError(t *testing.T) {
	sub := &fakeSubmitter{}
	b := New(DefaultConfig(), sub, zerolog.Nop())
	b.Close()

	h := b.AddOrder(gtcOrder("ETH"), 1)
	imm, ok := h.(Immediate)
	if !ok {
		t.Fatalf("expected Immediate after Close, got %T", h)
	}
	if imm.Err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", imm.Err)
	}
}

func TestBatcherCancelsSubmitSeparatelyFromOrders(t *testing.T) {
	sub := &fakeSubmitter{}
	cfg := Config{Interval: 20 * time.Millisecond, MaxBatchSize: 100, PrioritizeALO: true, MaxWaitTime: time.Second}
	b := New(cfg, sub, zerolog.Nop())
	defer b.Close()

	hOrder := b.AddOrder(gtcOrder("ETH"), 1)
	hCancel := b.AddCancel(types.CancelRequest{Coin: "ETH", Oid: 7}, 2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := hOrder.(*Pending).Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if _, err := hCancel.(*Pending).Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	orderCalls, cancelCalls := sub.callCounts()
	if orderCalls != 1 || cancelCalls != 1 {
		t.Fatalf("expected one order submit and one cancel submit, got orders=%d cancels=%d", orderCalls, cancelCalls)
	}
}
