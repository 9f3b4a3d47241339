// Package client provides the REST transport for the Hyperliquid exchange
// and info endpoints.
package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/shoyowada/hlgo/constants"
	"github.com/shoyowada/hlgo/ratelimit"
	"github.com/shoyowada/hlgo/types"
)

// API is the base client for making HTTP requests to the Hyperliquid API.
// Exchange and Info both embed it and share its rate limiter.
type API struct {
	BaseURL string
	http    *resty.Client
	rl      *ratelimit.Bucket
	log     zerolog.Logger
}

// NewAPI creates a new API client. If baseURL is empty, it defaults to
// MainnetAPIURL. If timeout is 0, it defaults to DefaultTimeout.
func NewAPI(baseURL string, timeout time.Duration, log zerolog.Logger) *API {
	if baseURL == "" {
		baseURL = constants.MainnetAPIURL
	}
	if timeout == 0 {
		timeout = constants.DefaultTimeout * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json")

	return &API{
		BaseURL: baseURL,
		http:    httpClient,
		rl:      ratelimit.NewBucket(constants.DefaultRateLimitCapacity, constants.DefaultRateLimitRefillPerSec),
		log:     log,
	}
}

// ExchangeResponse mirrors the venue's {status, response} envelope.
type ExchangeResponse struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
}

func (a *API) exchangePost(ctx context.Context, urlPath string, payload any, weight float64, result any) error {
	if err := a.rl.Check(weight); err != nil {
		return err
	}

	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(nonNil(payload)).
		Post(urlPath)
	if err != nil {
		a.log.Error().Err(err).Str("path", urlPath).Msg("exchange request failed")
		return types.NewNetworkError(err)
	}

	// The venue reports domain errors (bad nonce, insufficient margin, ...)
	// inside the {status, response} envelope even under a non-2xx status,
	// so the envelope is attempted before falling back to a bare HTTP error.
	// A body that is not the envelope shape under a status >= 400 gives
	// Http{status, body}; an "err" envelope gives Http{status, reason}, with
	// the venue's reason string as the body, whatever the status.
	var respData ExchangeResponse
	envelopeParsed := json.Unmarshal(resp.Body(), &respData) == nil && respData.Status != ""

	if resp.StatusCode() >= 400 && !envelopeParsed {
		return types.NewHttpError(resp.StatusCode(), string(resp.Body()))
	}

	if respData.Status != "ok" {
		var errMsg string
		if err := json.Unmarshal(respData.Response, &errMsg); err != nil {
			return types.NewInvalidResponseError("non-ok status with unparsable response", err)
		}
		return types.NewHttpError(resp.StatusCode(), errMsg)
	}

	if result != nil && len(respData.Response) > 0 {
		if err := json.Unmarshal(respData.Response, result); err != nil {
			return types.NewInvalidResponseError("failed to parse exchange response", err)
		}
	}

	return nil
}

func (a *API) infoPost(ctx context.Context, urlPath string, payload any, weight float64, result any) error {
	if err := a.rl.Check(weight); err != nil {
		return err
	}

	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(nonNil(payload)).
		Post(urlPath)
	if err != nil {
		a.log.Error().Err(err).Str("path", urlPath).Msg("info request failed")
		return types.NewNetworkError(err)
	}

	if resp.StatusCode() >= 400 {
		return types.NewHttpError(resp.StatusCode(), string(resp.Body()))
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body(), result); err != nil {
			return types.NewInvalidResponseError("failed to parse info response", err)
		}
	}

	return nil
}

func nonNil(payload any) any {
	if payload == nil {
		return map[string]any{}
	}
	return payload
}

// IsMainnet returns true if the client is configured for mainnet.
func (a *API) IsMainnet() bool {
	return a.BaseURL == constants.MainnetAPIURL
}

// SetTimeout updates the HTTP client timeout.
func (a *API) SetTimeout(timeout time.Duration) {
	a.http.SetTimeout(timeout)
}

// RateLimiter exposes the shared bucket so callers can inspect headroom.
func (a *API) RateLimiter() *ratelimit.Bucket {
	return a.rl
}

// SetRateLimit replaces the shared token bucket wholesale, for callers
// tuning capacity/refill away from the package defaults (e.g. from
// hlconfig.Config.RateLimit).
func (a *API) SetRateLimit(capacity, refillPerSec float64) {
	a.rl = ratelimit.NewBucket(capacity, refillPerSec)
}
