package goAuthClient

import (
	"context"

	"github.com/MrEthical07/goAuthClient/credential"
)

// Logout describes the logout operation and its observable behavior.
//
// Logout ends the session locally: both credentials are discarded, the store
// records ReasonUserInitiated, and the persisted copy is deleted. Logging out
// of an already-anonymous session is a no-op. The remote service holds no
// session state, so no network call is made.
func (c *Client) Logout() {
	if c == nil {
		return
	}
	if !c.store.Clear(credential.ReasonUserInitiated) {
		return
	}
	c.metrics.Inc(MetricLogout)
	c.emitEvent(EventLogout, nil)
}

// Renew describes the renew operation and its observable behavior.
//
// Renew forces a credential renewal without waiting for an authorization
// failure, joining any renewal already in flight. It returns
// [ErrNotAuthenticated] when no refresh credential exists and an error
// wrapping [ErrSessionExpired] when the renewal fails and terminates the
// session.
func (c *Client) Renew(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.renewals.Renew(ctx)
}
