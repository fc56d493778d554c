package goAuthClient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrEthical07/goAuthClient/claims"
	"github.com/MrEthical07/goAuthClient/internal/flows"
)

// Login describes the login operation and its observable behavior.
//
// Login exchanges email and password for a credential pair and establishes
// the session. On success the returned identity is decoded from the new
// access credential and the session is Authenticated before Login returns.
// A rejection by the service maps to [ErrInvalidCredentials]; a reply
// missing either credential maps to [ErrExchangeIncomplete] and leaves the
// session untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*claims.Identity, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	res := c.flows.Exchange(ctx, c.sendExchange("/users/login", email, password))
	identity, err := c.finishExchange(res, ErrInvalidCredentials)
	if err != nil {
		c.metrics.Inc(MetricLoginFailure)
		c.emitEvent(EventLogin, err)
		return nil, err
	}

	c.metrics.Inc(MetricLoginSuccess)
	c.emitEvent(EventLogin, nil)
	return identity, nil
}

// Register describes the register operation and its observable behavior.
//
// Register creates an account and, like Login, establishes the session from
// the returned credential pair. A rejection by the service maps to
// [ErrRegistrationFailed]; an address already registered surfaces as
// [ErrAccountExists] through the transport error.
func (c *Client) Register(ctx context.Context, email, password string) (*claims.Identity, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	res := c.flows.Exchange(ctx, c.sendExchange("/users/register", email, password))
	identity, err := c.finishExchange(res, ErrRegistrationFailed)
	if err != nil {
		c.metrics.Inc(MetricRegisterFailure)
		c.emitEvent(EventRegister, err)
		return nil, err
	}

	c.metrics.Inc(MetricRegisterSuccess)
	c.emitEvent(EventRegister, nil)
	return identity, nil
}

// sendExchange builds the per-call exchange sender. The closure owns the
// submitted credentials; they never land in any longer-lived struct.
func (c *Client) sendExchange(path, email, password string) flows.SendExchange {
	return func(ctx context.Context) (flows.ExchangeReply, error) {
		var reply tokenResponse
		err := c.gateway.send(ctx, apiCall{
			method:       http.MethodPost,
			path:         path,
			body:         credentialRequest{Email: email, Password: password},
			out:          &reply,
			authEndpoint: true,
		})
		if err != nil {
			return flows.ExchangeReply{}, err
		}
		return flows.ExchangeReply{
			Success:      reply.Success,
			Message:      reply.Message,
			Token:        reply.Token,
			RefreshToken: reply.RefreshToken,
		}, nil
	}
}

// finishExchange maps a flow outcome onto the public error taxonomy.
// rejected is the sentinel for a well-formed reply that denies the exchange.
func (c *Client) finishExchange(res flows.ExchangeResult, rejected error) (*claims.Identity, error) {
	switch res.Failure {
	case flows.ExchangeFailureNone:
		return res.Identity, nil
	case flows.ExchangeFailureTransport:
		return nil, res.Err
	case flows.ExchangeFailureRejected:
		if res.Message != "" {
			return nil, fmt.Errorf("%w: %s", rejected, res.Message)
		}
		return nil, rejected
	case flows.ExchangeFailureMissingPair:
		return nil, ErrExchangeIncomplete
	default:
		// Decode and store failures carry their cause.
		return nil, res.Err
	}
}
