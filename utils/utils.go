// Package utils provides utility functions for the Hyperliquid SDK.
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// FloatToWire converts a float to a string representation suitable for the API.
// It rounds to 8 decimal places and normalizes the output (removes trailing zeros).
//
// Most call sites still hand in a float64 (prices/sizes arrive that way from
// calling code), so the float64 entry point is kept; it delegates to
// FormatDecimal, which does the canonical base-10 rounding so a value like
// 0.1 + 0.2 never produces a spurious non-terminating decimal string.
func FloatToWire(x float64) (string, error) {
	d := decimal.NewFromFloat(x)
	rounded := d.Round(8)

	if !rounded.Equal(d) && rounded.Sub(d).Abs().GreaterThan(decimal.NewFromFloat(1e-12)) {
		return "", fmt.Errorf("float_to_wire causes rounding: %f", x)
	}

	return FormatDecimal(rounded), nil
}

// FormatDecimal renders a decimal.Decimal per Testable Property 6: trailing
// zeros stripped, trailing "." stripped, and negative zero collapses to "0".
func FormatDecimal(d decimal.Decimal) string {
	if d.IsZero() {
		return "0"
	}
	s := d.StringFixed(8)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" || s == "" {
		s = "0"
	}
	return s
}

// FloatToIntForHashing converts a float to an integer for hashing (8 decimals)
func FloatToIntForHashing(x float64) (int64, error) {
	return FloatToInt(x, 8)
}

// FloatToUsdInt converts a float to a USD integer (6 decimals)
func FloatToUsdInt(x float64) (int64, error) {
	return FloatToInt(x, 6)
}

// FloatToInt converts a float to an integer with specified decimal places
func FloatToInt(x float64, power int) (int64, error) {
	multiplier := math.Pow(10, float64(power))
	withDecimals := x * multiplier

	// Check if rounding would occur
	if math.Abs(math.Round(withDecimals)-withDecimals) >= 1e-3 {
		return 0, fmt.Errorf("float_to_int causes rounding: %f", x)
	}

	return int64(math.Round(withDecimals)), nil
}

// GetTimestampMs returns the current timestamp in milliseconds
func GetTimestampMs() int64 {
	return time.Now().UnixMilli()
}

// RoundPrice rounds a price to the specified number of significant figures and decimals
func RoundPrice(px float64, sigFigs int, decimals int) float64 {
	// Round to significant figures
	if px == 0 {
		return 0
	}

	// Calculate the power of 10 for significant figures
	magnitude := math.Floor(math.Log10(math.Abs(px)))
	power := float64(sigFigs-1) - magnitude
	multiplier := math.Pow(10, power)

	rounded := math.Round(px*multiplier) / multiplier

	// Then round to decimals
	decimalMultiplier := math.Pow(10, float64(decimals))
	rounded = math.Round(rounded*decimalMultiplier) / decimalMultiplier

	return rounded
}

// FormatFloat formats a float with up to 8 decimal places, removing trailing zeros
func FormatFloat(f float64) string {
	s := fmt.Sprintf("%.8f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}

// AddressToBytes converts a hex address string to bytes
func AddressToBytes(address string) ([]byte, error) {
	// Remove 0x prefix if present
	// if strings.HasPrefix(address, "0x") {
	// 	address = address[2:]
	// }
	address = strings.TrimPrefix(address, "0x")

	// Decode hex string
	bytes := make([]byte, len(address)/2)
	for i := 0; i < len(bytes); i++ {
		b, err := strconv.ParseUint(address[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex address: %w", err)
		}
		bytes[i] = byte(b)
	}

	return bytes, nil
}

// BytesToHex converts bytes to a hex string with 0x prefix
func BytesToHex(b []byte) string {
	hex := make([]byte, len(b)*2+2)
	hex[0] = '0'
	hex[1] = 'x'

	const hexChars = "0123456789abcdef"
	for i, v := range b {
		hex[i*2+2] = hexChars[v>>4]
		hex[i*2+3] = hexChars[v&0x0f]
	}

	return string(hex)
}

// OrderedMap is a map-like value whose key/value pairs encode in the exact
// order they were supplied, for both JSON and MessagePack. The venue's
// L1-action hashing depends on the "named" MessagePack form using the
// declared field order, which a plain Go map (randomized iteration order)
// cannot guarantee.
type OrderedMap struct {
	keys   []string
	values []any
}

// NewOrderedMap builds an OrderedMap from alternating key, value arguments:
//
//	NewOrderedMap("type", "order", "orders", wires, "grouping", "na")
func NewOrderedMap(kv ...any) *OrderedMap {
	if len(kv)%2 != 0 {
		panic("utils.NewOrderedMap: odd number of arguments")
	}
	m := &OrderedMap{}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("utils.NewOrderedMap: keys must be strings")
		}
		m.keys = append(m.keys, key)
		m.values = append(m.values, kv[i+1])
	}
	return m
}

// Set appends or overwrites a key, preserving first-insertion order.
func (m *OrderedMap) Set(key string, value any) *OrderedMap {
	for i, k := range m.keys {
		if k == key {
			m.values[i] = value
			return m
		}
	}
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	return m
}

// EncodeMsgpack implements msgpack.CustomEncoder, writing a named-form map
// (keys included) in declaration order.
func (m *OrderedMap) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(m.keys)); err != nil {
		return err
	}
	for i, k := range m.keys {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := enc.Encode(m.values[i]); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON renders the map as a JSON object preserving key order.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(m.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
