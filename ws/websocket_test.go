package ws

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSubscriptionMatchesFiltersByCoin(t *testing.T) {
	trades := Subscription{Type: SubscriptionTrades, Coin: "BTC"}

	if !trades.matches("trades", peekFields{Coin: "BTC"}) {
		t.Fatal("expected BTC trades subscription to match a BTC payload")
	}
	if trades.matches("trades", peekFields{Coin: "ETH"}) {
		t.Fatal("expected BTC trades subscription to reject an ETH payload")
	}
	if trades.matches("l2Book", peekFields{Coin: "BTC"}) {
		t.Fatal("expected trades subscription to reject a different channel")
	}
}

func TestSubscriptionMatchesCandleUsesShortCoinKey(t *testing.T) {
	candles := Subscription{Type: SubscriptionCandle, Coin: "ETH", Interval: "1m"}

	if !candles.matches("candle", peekFields{S: "ETH"}) {
		t.Fatal("expected candle subscription to match payload carrying coin under 's'")
	}
	if candles.matches("candle", peekFields{S: "BTC"}) {
		t.Fatal("expected candle subscription to reject a different coin")
	}
}

func TestSubscriptionMatchesFiltersByUser(t *testing.T) {
	fills := Subscription{Type: SubscriptionUserFills, User: "0xabc"}

	if !fills.matches("userFills", peekFields{User: "0xabc"}) {
		t.Fatal("expected userFills subscription to match same user")
	}
	if fills.matches("userFills", peekFields{User: "0xdef"}) {
		t.Fatal("expected userFills subscription to reject a different user")
	}
}

func TestMultiplexerSubscribeUnsubscribeRegistry(t *testing.T) {
	m := NewMultiplexer(MainnetWsURL, zerolog.Nop())

	// Subscribing without a connection must fail cleanly rather than panic.
	if _, _, err := m.Subscribe(Subscription{Type: SubscriptionAllMids}); err == nil {
		t.Fatal("expected Subscribe before Connect to fail")
	}
	if len(m.registry) != 0 {
		t.Fatal("failed subscribe must not leave a dangling registry entry")
	}
}
