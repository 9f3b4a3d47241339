package managed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"

	"github.com/shoyowada/hlgo/batcher"
	"github.com/shoyowada/hlgo/hlconfig"
	"github.com/shoyowada/hlgo/types"
)

func writeOK(w http.ResponseWriter, response any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "response": response})
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body["type"] {
		case "spotMeta":
			_ = json.NewEncoder(w).Encode(map[string]any{"universe": []map[string]any{}, "tokens": []map[string]any{}})
		case "meta":
			_ = json.NewEncoder(w).Encode(map[string]any{"universe": []map[string]any{{"name": "BTC", "szDecimals": 5}}})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{})
		}
	})
	mux.HandleFunc("/exchange", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		action, _ := body["action"].(map[string]any)
		switch action["type"] {
		case "approveAgent":
			writeOK(w, types.DefaultResponse{Type: "default"})
		case "order":
			writeOK(w, types.OrderDataBody{Statuses: []types.OrderStatus{{Resting: &types.RestingOrder{Oid: 1}}}})
		case "cancel":
			writeOK(w, types.CancelDataBody{})
		default:
			writeOK(w, map[string]any{})
		}
	})
	return httptest.NewServer(mux)
}

func TestBuilderBuildsPlainExchange(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("crypto.GenerateKey() error = %v", err)
	}

	ex, err := NewBuilder(key).WithBaseURL(srv.URL).WithTimeout(5 * time.Second).WithLogger(zerolog.Nop()).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if ex.Raw() == nil {
		t.Fatal("expected a non-nil raw exchange")
	}
}

func TestPlaceOrderImmediateWithoutBatching(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("crypto.GenerateKey() error = %v", err)
	}

	ex, err := NewBuilder(key).WithBaseURL(srv.URL).WithLogger(zerolog.Nop()).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	order := types.OrderRequest{
		Coin:      "BTC",
		IsBuy:     true,
		Sz:        1,
		LimitPx:   100,
		OrderType: types.OrderType{Limit: &types.LimitOrderType{Tif: types.TifGtc}},
	}

	handle, err := ex.PlaceOrder(order)
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
	imm, ok := handle.(batcher.Immediate)
	if !ok {
		t.Fatalf("expected Immediate when batching is off, got %T", handle)
	}
	if imm.Err != nil {
		t.Fatalf("unexpected error in immediate result: %v", imm.Err)
	}
	if imm.Status == nil || imm.Status.Status != "ok" {
		t.Fatal("expected an ok status")
	}
}

func TestPlaceOrderWithBatchingReturnsPending(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("crypto.GenerateKey() error = %v", err)
	}

	ex, err := NewBuilder(key).
		WithBaseURL(srv.URL).
		WithLogger(zerolog.Nop()).
		WithAutoBatching(20 * time.Millisecond).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer ex.Shutdown()

	order := types.OrderRequest{
		Coin:      "BTC",
		IsBuy:     true,
		Sz:        1,
		LimitPx:   100,
		OrderType: types.OrderType{Limit: &types.LimitOrderType{Tif: types.TifGtc}},
	}

	handle, err := ex.PlaceOrder(order)
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
	if _, ok := handle.(batcher.Immediate); ok {
		t.Fatal("expected a Pending handle when batching is on")
	}
}

func TestFromConfigBuildsExchangeWithTunedDefaults(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("crypto.GenerateKey() error = %v", err)
	}

	cfg := hlconfig.Default()
	cfg.BaseURL = srv.URL
	cfg.Batch.Interval = 20 * time.Millisecond
	cfg.RateLimit.Capacity = 5
	cfg.RateLimit.RefillPerSec = 5

	ex, err := FromConfig(&cfg, key)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	defer ex.Shutdown()

	if ex.Raw() == nil {
		t.Fatal("expected a non-nil raw exchange")
	}
	if !ex.cfg.BatchOrders {
		t.Fatal("expected FromConfig to turn batching on")
	}
	if !ex.cfg.AutoRotateAgents {
		t.Fatal("expected FromConfig to turn agent rotation on")
	}
	if ex.Raw().RateLimiter() == nil {
		t.Fatal("expected a rate limiter to be wired")
	}
}

func TestAgentRotationMintsDefaultAgent(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("crypto.GenerateKey() error = %v", err)
	}

	ex, err := NewBuilder(key).
		WithBaseURL(srv.URL).
		WithLogger(zerolog.Nop()).
		WithAgentRotation(time.Hour).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	order := types.OrderRequest{
		Coin:      "BTC",
		IsBuy:     true,
		Sz:        1,
		LimitPx:   100,
		OrderType: types.OrderType{Limit: &types.LimitOrderType{Tif: types.TifGtc}},
	}
	if _, err := ex.PlaceOrder(order); err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	status := ex.AgentStatus()
	if len(status) != 1 {
		t.Fatalf("expected exactly one live agent after rotation, got %d", len(status))
	}
	if status[0].Name != "default" {
		t.Errorf("Name = %s, want default", status[0].Name)
	}
}
