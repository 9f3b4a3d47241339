package tracker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"

	"github.com/shoyowada/hlgo/types"
)

func testCloid(n int64) types.Cloid {
	return *types.NewCloidFromInt(n)
}

func TestInsertStartsPending(t *testing.T) {
	tr := New()
	c := testCloid(1)
	tr.Insert(c, map[string]any{"coin": "BTC"})

	rec, ok := tr.Get(c)
	if !ok {
		t.Fatal("expected the order to be present after Insert")
	}
	if rec.Status != StatusPending {
		t.Fatalf("expected Pending, got %s", rec.Status)
	}
}

func TestStatusTransitionIsOneWay(t *testing.T) {
	tr := New()
	c := testCloid(2)
	tr.Insert(c, nil)

	tr.UpdateSubmitted(c, json.RawMessage(`{"oid":1}`))
	rec, _ := tr.Get(c)
	if rec.Status != StatusSubmitted {
		t.Fatalf("expected Submitted, got %s", rec.Status)
	}

	// A second transition attempt on a terminal order must be a no-op.
	tr.UpdateFailed(c, "too late")
	rec, _ = tr.Get(c)
	if rec.Status != StatusSubmitted {
		t.Fatalf("expected status to remain Submitted, got %s", rec.Status)
	}
}

func TestListByStatus(t *testing.T) {
	tr := New()
	a, b, c := testCloid(1), testCloid(2), testCloid(3)
	tr.Insert(a, nil)
	tr.Insert(b, nil)
	tr.Insert(c, nil)

	tr.UpdateSubmitted(a, nil)
	tr.UpdateFailed(b, "rejected")

	if len(tr.ListByStatus(StatusSubmitted)) != 1 {
		t.Fatal("expected exactly one Submitted order")
	}
	if len(tr.ListByStatus(StatusFailed)) != 1 {
		t.Fatal("expected exactly one Failed order")
	}
	if len(tr.ListByStatus(StatusPending)) != 1 {
		t.Fatal("expected exactly one Pending order")
	}
}

func TestClearRemovesEverything(t *testing.T) {
	tr := New()
	tr.Insert(testCloid(1), nil)
	tr.Clear()

	if len(tr.List()) != 0 {
		t.Fatal("expected Clear to empty the tracker")
	}
}

func TestDurableTrackerRecoversAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		t.Fatalf("bolt.Open() error = %v", err)
	}

	tr, err := NewDurable(db)
	if err != nil {
		t.Fatalf("NewDurable() error = %v", err)
	}
	c := testCloid(42)
	tr.Insert(c, nil)
	tr.UpdateSubmitted(c, json.RawMessage(`{"oid":7}`))

	if err := db.Close(); err != nil {
		t.Fatalf("db.Close() error = %v", err)
	}

	db2, err := bolt.Open(path, 0600, nil)
	if err != nil {
		t.Fatalf("reopen bolt.Open() error = %v", err)
	}
	defer func() {
		_ = db2.Close()
		_ = os.Remove(path)
	}()

	tr2, err := NewDurable(db2)
	if err != nil {
		t.Fatalf("NewDurable() on reopen error = %v", err)
	}

	rec, ok := tr2.Get(c)
	if !ok {
		t.Fatal("expected the submitted order to survive a restart")
	}
	if rec.Status != StatusSubmitted {
		t.Fatalf("expected recovered status Submitted, got %s", rec.Status)
	}
}
