package ratelimit

import (
	"testing"
	"time"

	"github.com/shoyowada/hlgo/types"
)

func TestBucketAllowsUpToCapacityThenDenies(t *testing.T) {
	b := NewBucket(100, 10)

	for i := 0; i < 100; i++ {
		if err := b.Check(1); err != nil {
			t.Fatalf("call %d: unexpected denial: %v", i, err)
		}
	}

	err := b.Check(1)
	if err == nil {
		t.Fatal("expected the 101st call to be denied")
	}
	var rlErr *types.Error
	if !asError(err, &rlErr) || rlErr.Kind != types.ErrRateLimited {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if rlErr.Available != 0 || rlErr.Required != 1 {
		t.Fatalf("expected available=0 required=1, got available=%v required=%v", rlErr.Available, rlErr.Required)
	}
}

func TestBucketRefillsOverTime(t *testing.T) {
	b := NewBucket(100, 10)
	for i := 0; i < 100; i++ {
		_ = b.Check(1)
	}

	time.Sleep(1100 * time.Millisecond)

	if err := b.Check(10); err != nil {
		t.Fatalf("expected refill to allow a 10-weight check after 1s: %v", err)
	}
}

func TestBucketZeroWeightAlwaysSucceeds(t *testing.T) {
	b := NewBucket(1, 1)
	_ = b.Check(1)
	if err := b.Check(0); err != nil {
		t.Fatalf("zero-weight check must always succeed, got %v", err)
	}
}

func asError(err error, target **types.Error) bool {
	e, ok := err.(*types.Error)
	if ok {
		*target = e
	}
	return ok
}
