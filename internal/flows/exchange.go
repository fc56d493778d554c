package flows

import (
	"context"

	"github.com/MrEthical07/goAuthClient/claims"
	"github.com/MrEthical07/goAuthClient/credential"
)

// ExchangeFailureKind classifies credential exchange failures for root-level mapping.
type ExchangeFailureKind int

const (
	ExchangeFailureNone ExchangeFailureKind = iota
	ExchangeFailureTransport
	ExchangeFailureRejected
	ExchangeFailureMissingPair
	ExchangeFailureDecode
	ExchangeFailureStore
)

// ExchangeReply is the flow-local shape of a login or registration response.
type ExchangeReply struct {
	Success      bool
	Message      string
	Token        string
	RefreshToken string
}

// SendExchange performs one login or registration call. It is supplied per
// invocation because it closes over the caller's credentials.
type SendExchange func(ctx context.Context) (ExchangeReply, error)

// ExchangeDeps captures the fixed credential exchange dependencies.
type ExchangeDeps struct {
	Decode func(access string) (*claims.Identity, error)
	Store  func(pair credential.Pair, identity *claims.Identity) error
	Warn   func(string, ...any)
}

// ExchangeResult carries either the stored identity or failure metadata.
type ExchangeResult struct {
	Failure  ExchangeFailureKind
	Err      error
	Message  string
	Pair     credential.Pair
	Identity *claims.Identity
}

// RunExchange executes one login or registration exchange: it sends the
// request, validates that the reply carries a complete credential pair,
// decodes the identity, and commits both to the store atomically.
func RunExchange(ctx context.Context, send SendExchange, deps ExchangeDeps) ExchangeResult {
	reply, err := send(ctx)
	if err != nil {
		return ExchangeResult{
			Failure: ExchangeFailureTransport,
			Err:     err,
		}
	}

	if !reply.Success || reply.Token == "" {
		return ExchangeResult{
			Failure: ExchangeFailureRejected,
			Message: reply.Message,
		}
	}

	pair := credential.Pair{
		Access:  reply.Token,
		Refresh: reply.RefreshToken,
	}
	if !pair.Complete() {
		if deps.Warn != nil {
			deps.Warn("goAuthClient: exchange reply carried a partial credential pair")
		}
		return ExchangeResult{Failure: ExchangeFailureMissingPair}
	}

	identity, err := deps.Decode(pair.Access)
	if err != nil {
		return ExchangeResult{
			Failure: ExchangeFailureDecode,
			Err:     err,
		}
	}

	if err := deps.Store(pair, identity); err != nil {
		return ExchangeResult{
			Failure: ExchangeFailureStore,
			Err:     err,
		}
	}

	return ExchangeResult{
		Pair:     pair,
		Identity: identity,
		Message:  reply.Message,
	}
}
