package goAuthClient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/MrEthical07/goAuthClient/claims"
	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/MrEthical07/goAuthClient/role"
)

func newTestGateway(t *testing.T, srv *httptest.Server, st *credential.Store) *gateway {
	t.Helper()
	return &gateway{
		baseURL:   trimBaseURL(srv.URL),
		http:      srv.Client(),
		store:     st,
		userAgent: "goAuthClient-test/1",
		metrics:   NewMetrics(MetricsConfig{Enabled: true}),
	}
}

func TestGatewayDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer access-1" {
			t.Errorf("Authorization = %q, want bearer access-1", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		json.NewEncoder(w).Encode(User{ID: 7, Email: "a@b.test", Roles: []string{"ROLE_USER"}})
	}))
	defer srv.Close()

	g := newTestGateway(t, srv, seededStore(t, "access-1", "refresh-1"))

	var user User
	if err := g.send(context.Background(), apiCall{method: http.MethodGet, path: "/users/7", out: &user}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if user.ID != 7 || user.Email != "a@b.test" {
		t.Fatalf("decoded user = %+v", user)
	}
}

func TestGatewayRetriesOnceAfterRenewal(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(User{ID: 7})
	}))
	defer srv.Close()

	st := seededStore(t, "access-1", "refresh-1")
	g := newTestGateway(t, srv, st)

	var renewals atomic.Int64
	g.renew = func(ctx context.Context) error {
		renewals.Add(1)
		identity := &claims.Identity{Subject: "user-1", Roles: role.NewSet(role.User)}
		return st.Set(credential.Pair{Access: "access-2", Refresh: "refresh-2"}, identity)
	}

	var user User
	if err := g.send(context.Background(), apiCall{method: http.MethodGet, path: "/users/7", out: &user}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("server saw %d calls, want 2", got)
	}
	if got := renewals.Load(); got != 1 {
		t.Fatalf("renew invoked %d times, want 1", got)
	}

	snap := g.metrics.Snapshot()
	if snap.Counters[MetricRequestRetried] != 1 {
		t.Fatalf("retried counter = %d, want 1", snap.Counters[MetricRequestRetried])
	}
}

func TestGatewayRetriesAtMostOnce(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	st := seededStore(t, "access-1", "refresh-1")
	g := newTestGateway(t, srv, st)
	g.renew = func(ctx context.Context) error {
		identity := &claims.Identity{Subject: "user-1", Roles: role.NewSet(role.User)}
		return st.Set(credential.Pair{Access: "access-2", Refresh: "refresh-2"}, identity)
	}

	err := g.send(context.Background(), apiCall{method: http.MethodGet, path: "/users/7"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("server saw %d calls, want exactly 2", got)
	}
}

func TestGatewayRenewalFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := newTestGateway(t, srv, seededStore(t, "access-1", "refresh-1"))
	g.renew = func(ctx context.Context) error { return ErrSessionExpired }

	err := g.send(context.Background(), apiCall{method: http.MethodGet, path: "/users/7"})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
}

func TestGatewayAuthEndpointNeverRenews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(serverError{Message: "Invalid email or password"})
	}))
	defer srv.Close()

	g := newTestGateway(t, srv, seededStore(t, "access-1", "refresh-1"))
	g.renew = func(ctx context.Context) error {
		t.Error("renew must not run for auth endpoints")
		return nil
	}

	err := g.send(context.Background(), apiCall{
		method:       http.MethodPost,
		path:         "/users/login",
		body:         credentialRequest{Email: "a@b.test", Password: "nope"},
		authEndpoint: true,
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestGatewayAnonymous401NotRecovered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := newTestGateway(t, srv, credential.NewStore(nil))
	g.renew = func(ctx context.Context) error {
		t.Error("renew must not run without a refresh credential")
		return nil
	}

	err := g.send(context.Background(), apiCall{method: http.MethodGet, path: "/users/7"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestGatewayErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   serverError
		want   error
	}{
		{"validation", 400, serverError{Message: "Validation failed", ValidationErrors: map[string]string{"email": "must be valid"}}, ErrValidation},
		{"forbidden", 403, serverError{Message: "Access denied"}, ErrForbidden},
		{"not found", 404, serverError{Message: "User not found"}, ErrUserNotFound},
		{"conflict", 409, serverError{Message: "Email already registered"}, ErrAccountExists},
		{"server", 500, serverError{Message: "Internal error"}, ErrServer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(tc.body)
			}))
			defer srv.Close()

			g := newTestGateway(t, srv, seededStore(t, "access-1", "refresh-1"))
			g.renew = func(ctx context.Context) error { return nil }

			err := g.send(context.Background(), apiCall{method: http.MethodGet, path: "/users"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err %v is not *APIError", err)
			}
			if apiErr.Status != tc.status {
				t.Fatalf("status = %d, want %d", apiErr.Status, tc.status)
			}
			if tc.status == 400 && apiErr.Fields["email"] == "" {
				t.Fatal("validation field errors not carried")
			}
		})
	}
}

func TestGatewayLargeResponseBody(t *testing.T) {
	users := make([]User, 2000)
	for i := range users {
		users[i] = User{ID: int64(i + 1), Email: "user@example.test", Roles: []string{"ROLE_USER"}, CreatedAt: "2026-01-01T00:00:00Z"}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(users)
	}))
	defer srv.Close()

	g := newTestGateway(t, srv, seededStore(t, "access-1", "refresh-1"))

	var got []User
	if err := g.send(context.Background(), apiCall{method: http.MethodGet, path: "/users", out: &got}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(got) != len(users) {
		t.Fatalf("decoded %d users, want %d", len(got), len(users))
	}
	if got[len(got)-1].ID != users[len(users)-1].ID {
		t.Fatalf("last user ID = %d, want %d", got[len(got)-1].ID, users[len(users)-1].ID)
	}
}

func TestGatewayRequestIDFromContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Request-ID"); got != "trace-42" {
			t.Errorf("X-Request-ID = %q, want trace-42", got)
		}
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv, seededStore(t, "access-1", "refresh-1"))

	ctx := WithRequestID(context.Background(), "trace-42")
	if err := g.send(ctx, apiCall{method: http.MethodGet, path: "/users/1"}); err != nil {
		t.Fatalf("send: %v", err)
	}
}
