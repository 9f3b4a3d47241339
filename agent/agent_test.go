package agent

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shoyowada/hlgo/types"
)

type fakeApprover struct {
	mu    sync.Mutex
	calls int32
	names []string
}

func (f *fakeApprover) ApproveAgent(agentAddress string, agentName *string) (*types.DefaultResponse, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	name := ""
	if agentName != nil {
		name = *agentName
	}
	f.names = append(f.names, name)
	return &types.DefaultResponse{}, nil
}

func (f *fakeApprover) callCount() int32 {
	return atomic.LoadInt32(&f.calls)
}

func TestGetOrRotateMintsOnFirstCall(t *testing.T) {
	approver := &fakeApprover{}
	m := New(DefaultConfig(), approver)

	w, err := m.GetOrRotate(context.Background(), "trading-bot")
	if err != nil {
		t.Fatalf("GetOrRotate() error = %v", err)
	}
	if w.Name != "trading-bot" {
		t.Errorf("Name = %s, want trading-bot", w.Name)
	}
	if approver.callCount() != 1 {
		t.Fatalf("expected exactly one approval, got %d", approver.callCount())
	}
}

func TestGetOrRotateReusesLiveAgent(t *testing.T) {
	approver := &fakeApprover{}
	cfg := DefaultConfig()
	m := New(cfg, approver)

	w1, err := m.GetOrRotate(context.Background(), "bot")
	if err != nil {
		t.Fatalf("GetOrRotate() error = %v", err)
	}
	w2, err := m.GetOrRotate(context.Background(), "bot")
	if err != nil {
		t.Fatalf("GetOrRotate() error = %v", err)
	}
	if w1 != w2 {
		t.Error("expected the same live wallet to be reused")
	}
	if approver.callCount() != 1 {
		t.Fatalf("expected exactly one approval across repeated calls, got %d", approver.callCount())
	}
}

func TestGetOrRotateRotatesPastExpiryMargin(t *testing.T) {
	approver := &fakeApprover{}
	cfg := Config{TTL: time.Hour, MaxConcurrent: 3, RotateBeforeExpiryMargin: time.Hour}
	m := New(cfg, approver)

	// RotateBeforeExpiryMargin == TTL means the very first agent is
	// already inside its own rotation margin, forcing a rotate on the
	// next call.
	w1, err := m.GetOrRotate(context.Background(), "bot")
	if err != nil {
		t.Fatalf("GetOrRotate() error = %v", err)
	}
	w2, err := m.GetOrRotate(context.Background(), "bot")
	if err != nil {
		t.Fatalf("GetOrRotate() error = %v", err)
	}
	if w1 == w2 {
		t.Error("expected rotation to mint a new wallet")
	}
	if approver.callCount() != 2 {
		t.Fatalf("expected two approvals, got %d", approver.callCount())
	}
}

func TestGetOrRotateEvictsOldestPastMaxConcurrent(t *testing.T) {
	approver := &fakeApprover{}
	cfg := Config{TTL: time.Hour, MaxConcurrent: 2, RotateBeforeExpiryMargin: time.Hour}
	m := New(cfg, approver)

	var last *Wallet
	for i := 0; i < 4; i++ {
		w, err := m.GetOrRotate(context.Background(), "bot")
		if err != nil {
			t.Fatalf("GetOrRotate() error = %v", err)
		}
		last = w
	}

	live := m.Live("bot")
	if len(live) != 2 {
		t.Fatalf("expected at most MaxConcurrent=2 live wallets, got %d", len(live))
	}
	if live[len(live)-1] != last {
		t.Error("expected the most recently minted wallet to survive eviction")
	}
}

func TestGetOrRotateSerializesConcurrentCallsUnderSameName(t *testing.T) {
	approver := &fakeApprover{}
	m := New(DefaultConfig(), approver)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.GetOrRotate(context.Background(), "bot")
		}()
	}
	wg.Wait()

	if approver.callCount() != 1 {
		t.Fatalf("expected exactly one approval under concurrent contention, got %d", approver.callCount())
	}
}

func TestRetireForcesFreshMint(t *testing.T) {
	approver := &fakeApprover{}
	m := New(DefaultConfig(), approver)

	if _, err := m.GetOrRotate(context.Background(), "bot"); err != nil {
		t.Fatalf("GetOrRotate() error = %v", err)
	}
	m.Retire("bot")

	if _, err := m.GetOrRotate(context.Background(), "bot"); err != nil {
		t.Fatalf("GetOrRotate() error = %v", err)
	}
	if approver.callCount() != 2 {
		t.Fatalf("expected Retire to force a fresh approval, got %d calls", approver.callCount())
	}
}
