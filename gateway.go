package goAuthClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goAuthClient/credential"
)

// maxErrorBodySize bounds how much of an error response is read when looking
// for a structured server error body.
const maxErrorBodySize = 64 << 10

// apiCall describes one logical call through the request gateway.
type apiCall struct {
	method string
	path   string
	body   any
	out    any
	// authEndpoint marks login, registration, and renewal calls: a 401 there
	// reflects the submitted credentials, never an expired session, so the
	// gateway must not recover it through renewal.
	authEndpoint bool
}

// gateway wraps every outbound call: it attaches the bearer credential,
// detects authorization failure, delegates to the renewal coordinator, and
// retries the original request at most once with the renewed credential.
type gateway struct {
	baseURL   string
	http      *http.Client
	store     *credential.Store
	userAgent string
	metrics   *Metrics

	// renew joins or starts the shared renewal; wired to the coordinator.
	renew func(ctx context.Context) error
}

// send runs the per-call state machine. An authorization failure on the
// first attempt, while a refresh credential exists, awaits the shared renewal
// and resends the original request exactly once. Every other failure —
// network, server, validation — propagates to the caller unchanged.
func (g *gateway) send(ctx context.Context, call apiCall) error {
	for attempt := 0; ; attempt++ {
		g.metrics.Inc(MetricRequestSent)

		start := time.Now()
		status, body, err := g.attempt(ctx, call)
		g.metrics.ObserveLatency(MetricRequestLatency, time.Since(start))
		if err != nil {
			return err
		}

		if status < 400 {
			if call.out != nil && len(body) > 0 {
				if err := json.Unmarshal(body, call.out); err != nil {
					return fmt.Errorf("decode %s %s response: %w", call.method, call.path, err)
				}
			}
			return nil
		}

		var decoded serverError
		_ = json.Unmarshal(body, &decoded)

		if status == http.StatusUnauthorized && !call.authEndpoint {
			g.metrics.Inc(MetricAuthorizationFailure)
			if attempt == 0 && g.store.Current().Pair.Refresh != "" {
				if err := g.renew(ctx); err != nil {
					return err
				}
				g.metrics.Inc(MetricRequestRetried)
				continue
			}
		}

		return newAPIError(status, decoded, call.path, call.authEndpoint)
	}
}

// attempt performs one HTTP round trip. The bearer credential is read fresh
// from the store on every attempt so a retry after renewal picks up the new
// access credential.
func (g *gateway) attempt(ctx context.Context, call apiCall) (int, []byte, error) {
	var payload io.Reader
	if call.body != nil {
		blob, err := json.Marshal(call.body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s %s request: %w", call.method, call.path, err)
		}
		payload = bytes.NewReader(blob)
	}

	req, err := http.NewRequestWithContext(ctx, call.method, g.baseURL+call.path, payload)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if call.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)

	if access := g.store.Current().Pair.Access; access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	// Success bodies are read in full; only error bodies are capped, since
	// they are parsed solely for the structured server error.
	reader := io.Reader(resp.Body)
	if resp.StatusCode >= 400 {
		reader = io.LimitReader(reader, maxErrorBodySize)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func trimBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
