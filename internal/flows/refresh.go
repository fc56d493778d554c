package flows

import (
	"context"

	"github.com/MrEthical07/goAuthClient/claims"
	"github.com/MrEthical07/goAuthClient/credential"
)

// RefreshFailureKind classifies renewal flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureTransport
	RefreshFailureEmptyToken
	RefreshFailureDecode
)

// RefreshReply is the flow-local shape of a renewal response. RefreshToken is
// optional: a server that does not rotate refresh credentials returns only a
// new access token.
type RefreshReply struct {
	Token        string
	RefreshToken string
}

// RefreshDeps captures renewal flow dependencies.
type RefreshDeps struct {
	Send   func(ctx context.Context, refreshToken string) (RefreshReply, error)
	Decode func(access string) (*claims.Identity, error)
}

// RefreshResult carries either the renewed pair or failure metadata. The
// caller owns committing the pair to the store; the flow never writes it so
// the coordinator can discard a result whose session epoch has moved on.
type RefreshResult struct {
	Failure  RefreshFailureKind
	Err      error
	Pair     credential.Pair
	Identity *claims.Identity
}

// RunRefresh exchanges the current refresh credential for a new access
// credential. When the reply omits a rotated refresh credential, the current
// one is carried forward so the resulting pair stays complete.
func RunRefresh(ctx context.Context, refreshToken string, deps RefreshDeps) RefreshResult {
	reply, err := deps.Send(ctx, refreshToken)
	if err != nil {
		return RefreshResult{
			Failure: RefreshFailureTransport,
			Err:     err,
		}
	}

	if reply.Token == "" {
		return RefreshResult{Failure: RefreshFailureEmptyToken}
	}

	nextRefresh := reply.RefreshToken
	if nextRefresh == "" {
		nextRefresh = refreshToken
	}
	pair := credential.Pair{
		Access:  reply.Token,
		Refresh: nextRefresh,
	}

	identity, err := deps.Decode(pair.Access)
	if err != nil {
		return RefreshResult{
			Failure: RefreshFailureDecode,
			Err:     err,
		}
	}

	return RefreshResult{
		Pair:     pair,
		Identity: identity,
	}
}
