package nonce

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/shoyowada/hlgo/constants"
)

func TestIsValidBoundaries(t *testing.T) {
	now := int64(1_700_000_000_000)

	cases := []struct {
		name  string
		nonce int64
		want  bool
	}{
		{"exactly 2 days back is invalid", now - constants.NonceValidityBackwardMs, false},
		{"one ms inside the back boundary is valid", now - constants.NonceValidityBackwardMs + 1, true},
		{"exactly 1 day forward is invalid", now + constants.NonceValidityForwardMs, false},
		{"one ms inside the forward boundary is valid", now + constants.NonceValidityForwardMs - 1, true},
		{"now itself is valid", now, true},
	}

	for _, c := range cases {
		if got := IsValid(c.nonce, now); got != c.want {
			t.Errorf("%s: IsValid(%d, %d) = %v, want %v", c.name, c.nonce, now, got, c.want)
		}
	}
}

func TestManagerNextIsStrictlyIncreasingWithinSameMillisecond(t *testing.T) {
	m := NewManager(false)
	m.nowFunc = func() int64 { return 1_700_000_000_000 }

	var addr common.Address
	prev := m.Next(addr)
	for i := 0; i < 50; i++ {
		n := m.Next(addr)
		if n <= prev {
			t.Fatalf("nonce %d not strictly increasing after %d", n, prev)
		}
		prev = n
	}
}

func TestManagerIsolatesCountersPerAddress(t *testing.T) {
	m := NewManager(true)
	m.nowFunc = func() int64 { return 1_700_000_000_000 }

	a := common.HexToAddress("0x0000000000000000000000000000000000000001")
	b := common.HexToAddress("0x0000000000000000000000000000000000000002")

	na := m.Next(a)
	nb := m.Next(b)
	if na != nb {
		t.Fatalf("expected independent counters to produce the same first offset, got %d and %d", na, nb)
	}

	na2 := m.Next(a)
	if na2 <= na {
		t.Fatalf("expected address a's counter to advance independently, got %d then %d", na, na2)
	}
}

func TestManagerResetZeroesCounter(t *testing.T) {
	m := NewManager(false)
	m.nowFunc = func() int64 { return 1_700_000_000_000 }

	var addr common.Address
	first := m.Next(addr)
	_ = m.Next(addr)
	m.Reset(addr)
	afterReset := m.Next(addr)

	if afterReset != first {
		t.Fatalf("expected counter reset to reproduce the first offset %d, got %d", first, afterReset)
	}
}
