package utils

import "testing"

func TestFloatToWireStripsTrailingZeros(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1.0, "1"},
		{1.5, "1.5"},
		{0.1, "0.1"},
		{0, "0"},
		{-0.0, "0"},
		{123.45000000, "123.45"},
	}
	for _, c := range cases {
		got, err := FloatToWire(c.in)
		if err != nil {
			t.Fatalf("FloatToWire(%v) error = %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("FloatToWire(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFloatToWireRejectsExcessPrecision(t *testing.T) {
	if _, err := FloatToWire(1.123456789); err == nil {
		t.Fatal("expected an error for a value with more than 8 decimal places of precision")
	}
}

func TestNewOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := NewOrderedMap("b", 2, "a", 1)
	if len(m.keys) != 2 || m.keys[0] != "b" || m.keys[1] != "a" {
		t.Fatalf("expected key order [b a], got %v", m.keys)
	}
}
