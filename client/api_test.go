package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoyowada/hlgo/types"
)

func TestExchangePostSurfacesDomainErrorUnderNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "err", "response": "Invalid nonce"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, 5*time.Second, zerolog.Nop())

	err := api.exchangePost(context.Background(), "/exchange", map[string]any{}, 1, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	httpErr, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("expected *types.Error, got %T", err)
	}
	if httpErr.Body != "Invalid nonce" {
		t.Fatalf("expected the domain error message to survive, got %q", httpErr.Body)
	}
}

func TestExchangePostFallsBackToHttpErrorWhenBodyIsNotTheEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>502 Bad Gateway</html>"))
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, 5*time.Second, zerolog.Nop())

	err := api.exchangePost(context.Background(), "/exchange", map[string]any{}, 1, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	httpErr, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("expected *types.Error, got %T", err)
	}
	if httpErr.Body == "" {
		t.Fatal("expected the raw body to surface in the error")
	}
}
