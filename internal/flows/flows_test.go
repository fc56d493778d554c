package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goAuthClient/claims"
	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/MrEthical07/goAuthClient/role"
)

func decodeStub(subject string) func(string) (*claims.Identity, error) {
	return func(access string) (*claims.Identity, error) {
		if access == "undecodable" {
			return nil, claims.ErrMalformedCredential
		}
		return &claims.Identity{Subject: subject, Roles: role.NewSet(role.User)}, nil
	}
}

func TestRunExchangeSuccess(t *testing.T) {
	var stored credential.Pair
	deps := ExchangeDeps{
		Decode: decodeStub("alice@example.com"),
		Store: func(pair credential.Pair, identity *claims.Identity) error {
			stored = pair
			return nil
		},
	}
	send := func(ctx context.Context) (ExchangeReply, error) {
		return ExchangeReply{Success: true, Token: "a1", RefreshToken: "r1"}, nil
	}

	res := RunExchange(context.Background(), send, deps)
	if res.Failure != ExchangeFailureNone {
		t.Fatalf("unexpected failure %d: %v", res.Failure, res.Err)
	}
	if res.Identity == nil || res.Identity.Subject != "alice@example.com" {
		t.Fatalf("identity not decoded: %+v", res.Identity)
	}
	if stored != (credential.Pair{Access: "a1", Refresh: "r1"}) {
		t.Fatalf("pair not stored: %+v", stored)
	}
}

func TestRunExchangeRejected(t *testing.T) {
	deps := ExchangeDeps{Decode: decodeStub("x")}
	send := func(ctx context.Context) (ExchangeReply, error) {
		return ExchangeReply{Success: false, Message: "Invalid credentials"}, nil
	}

	res := RunExchange(context.Background(), send, deps)
	if res.Failure != ExchangeFailureRejected {
		t.Fatalf("expected rejected, got %d", res.Failure)
	}
	if res.Message != "Invalid credentials" {
		t.Fatalf("server message lost: %q", res.Message)
	}
}

func TestRunExchangePartialPair(t *testing.T) {
	var warned bool
	deps := ExchangeDeps{
		Decode: decodeStub("x"),
		Warn:   func(string, ...any) { warned = true },
	}
	send := func(ctx context.Context) (ExchangeReply, error) {
		return ExchangeReply{Success: true, Token: "a1"}, nil
	}

	res := RunExchange(context.Background(), send, deps)
	if res.Failure != ExchangeFailureMissingPair {
		t.Fatalf("expected missing pair, got %d", res.Failure)
	}
	if !warned {
		t.Fatalf("partial pair must warn")
	}
}

func TestRunExchangeTransportFailure(t *testing.T) {
	sentinel := errors.New("connection refused")
	send := func(ctx context.Context) (ExchangeReply, error) {
		return ExchangeReply{}, sentinel
	}

	res := RunExchange(context.Background(), send, ExchangeDeps{Decode: decodeStub("x")})
	if res.Failure != ExchangeFailureTransport || !errors.Is(res.Err, sentinel) {
		t.Fatalf("transport failure not propagated: %d %v", res.Failure, res.Err)
	}
}

func TestRunExchangeDecodeFailure(t *testing.T) {
	deps := ExchangeDeps{Decode: decodeStub("x")}
	send := func(ctx context.Context) (ExchangeReply, error) {
		return ExchangeReply{Success: true, Token: "undecodable", RefreshToken: "r1"}, nil
	}

	res := RunExchange(context.Background(), send, deps)
	if res.Failure != ExchangeFailureDecode || !errors.Is(res.Err, claims.ErrMalformedCredential) {
		t.Fatalf("expected decode failure, got %d %v", res.Failure, res.Err)
	}
}

func TestRunRefreshCarriesRefreshForward(t *testing.T) {
	deps := RefreshDeps{
		Send: func(ctx context.Context, refreshToken string) (RefreshReply, error) {
			if refreshToken != "r-current" {
				t.Fatalf("unexpected refresh token %q", refreshToken)
			}
			return RefreshReply{Token: "a-new"}, nil
		},
		Decode: decodeStub("alice@example.com"),
	}

	res := RunRefresh(context.Background(), "r-current", deps)
	if res.Failure != RefreshFailureNone {
		t.Fatalf("unexpected failure %d: %v", res.Failure, res.Err)
	}
	want := credential.Pair{Access: "a-new", Refresh: "r-current"}
	if res.Pair != want {
		t.Fatalf("expected %+v, got %+v", want, res.Pair)
	}
}

func TestRunRefreshHonorsRotatedRefresh(t *testing.T) {
	deps := RefreshDeps{
		Send: func(ctx context.Context, refreshToken string) (RefreshReply, error) {
			return RefreshReply{Token: "a-new", RefreshToken: "r-rotated"}, nil
		},
		Decode: decodeStub("alice@example.com"),
	}

	res := RunRefresh(context.Background(), "r-current", deps)
	if res.Pair.Refresh != "r-rotated" {
		t.Fatalf("rotated refresh token ignored: %+v", res.Pair)
	}
}

func TestRunRefreshEmptyToken(t *testing.T) {
	deps := RefreshDeps{
		Send: func(ctx context.Context, refreshToken string) (RefreshReply, error) {
			return RefreshReply{}, nil
		},
		Decode: decodeStub("x"),
	}

	res := RunRefresh(context.Background(), "r-current", deps)
	if res.Failure != RefreshFailureEmptyToken {
		t.Fatalf("expected empty token failure, got %d", res.Failure)
	}
}

func TestServiceInitialized(t *testing.T) {
	var s Service
	if s.Initialized() {
		t.Fatalf("zero service must not report initialized")
	}
	s = New(Deps{
		Exchange: ExchangeDeps{Decode: decodeStub("x")},
		Refresh: RefreshDeps{
			Send:   func(ctx context.Context, _ string) (RefreshReply, error) { return RefreshReply{}, nil },
			Decode: decodeStub("x"),
		},
	})
	if !s.Initialized() {
		t.Fatalf("wired service must report initialized")
	}
}
