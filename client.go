package goAuthClient

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goAuthClient/claims"
	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/MrEthical07/goAuthClient/internal/flows"
)

// cacheOpTimeout bounds the Redis round-trips made from transition hooks and
// Build-time restore, which run without a caller-supplied context.
const cacheOpTimeout = 2 * time.Second

// Transition defines a public type used by goAuthClient APIs.
//
// Transition instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Transition struct {
	State    credential.State
	Reason   credential.Reason
	Epoch    uint64
	Identity *claims.Identity
}

// Listener defines a public type used by goAuthClient APIs.
//
// Listeners run synchronously inside the session transition. They may read
// the client but must not call any session-mutating method; doing so
// deadlocks.
type Listener func(Transition)

type subscriber struct {
	id uint64
	fn Listener
}

// Client defines a public type used by goAuthClient APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	config  Config
	store   *credential.Store
	decoder *claims.Decoder
	gateway *gateway
	flows   flows.Service
	cache   *credential.Cache
	events  *eventDispatcher
	metrics *Metrics
	warn    func(string, ...any)

	renewals *renewalCoordinator

	listenerMu sync.Mutex
	listeners  []subscriber
	listenerID uint64

	closed atomic.Bool
}

// Subscribe describes the subscribe operation and its observable behavior.
//
// Subscribe registers listener for every session transition and returns the
// function that removes it. Listeners fire in registration order, after the
// transition is fully applied, so a listener reading the session observes
// the new state, never the old one.
func (c *Client) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	c.listenerMu.Lock()
	c.listenerID++
	id := c.listenerID
	c.listeners = append(c.listeners, subscriber{id: id, fn: listener})
	c.listenerMu.Unlock()

	return func() {
		c.listenerMu.Lock()
		defer c.listenerMu.Unlock()
		for i, sub := range c.listeners {
			if sub.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// CurrentIdentity describes the currentidentity operation and its observable behavior.
//
// CurrentIdentity returns the decoded identity of the active session, or nil
// when no session is established.
// CurrentIdentity does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) CurrentIdentity() *claims.Identity {
	if c == nil {
		return nil
	}
	return c.store.Identity()
}

// HasRole describes the hasrole operation and its observable behavior.
//
// HasRole reports whether the active session carries the required role by
// exact match. It is false whenever no session is established.
// HasRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) HasRole(required string) bool {
	identity := c.CurrentIdentity()
	if identity == nil {
		return false
	}
	return identity.Roles.Has(required)
}

// SessionState describes the sessionstate operation and its observable behavior.
//
// SessionState does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) SessionState() credential.State {
	if c == nil {
		return credential.StateAnonymous
	}
	return c.store.State()
}

// SessionSnapshot describes the sessionsnapshot operation and its observable behavior.
//
// SessionSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) SessionSnapshot() credential.Snapshot {
	return c.store.Current()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// EventsDropped describes the eventsdropped operation and its observable behavior.
//
// EventsDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) EventsDropped() uint64 {
	return c.events.Dropped()
}

// Close describes the close operation and its observable behavior.
//
// Close drains and stops the event dispatcher. The session itself is left as
// is; call [Client.Logout] first to end it. Close is idempotent.
func (c *Client) Close() {
	if c == nil || !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.events.Close()
}

func (c *Client) ready() error {
	if c == nil || !c.flows.Initialized() {
		return ErrClientNotReady
	}
	if c.closed.Load() {
		return ErrClientClosed
	}
	return nil
}

// handleTransition runs synchronously inside every store transition, after
// the new state is fully applied: subscribed listeners first, then the
// dispatcher, then the credential cache.
func (c *Client) handleTransition(snap credential.Snapshot) {
	t := Transition{
		State:    snap.State,
		Reason:   snap.Reason,
		Epoch:    snap.Epoch,
		Identity: snap.Identity,
	}

	c.listenerMu.Lock()
	subs := make([]subscriber, len(c.listeners))
	copy(subs, c.listeners)
	c.listenerMu.Unlock()
	for _, sub := range subs {
		sub.fn(t)
	}

	c.dispatchEvent(transitionEvent(EventTransition, snap, nil))
	c.persist(snap)
}

// persist mirrors the transition into the credential cache, when one is
// configured. Cache failures degrade to a warning; the in-memory session is
// the source of truth.
func (c *Client) persist(snap credential.Snapshot) {
	if c.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	if snap.Pair.Complete() {
		if err := c.cache.Save(ctx, snap.Pair); err != nil {
			c.warn("goAuthClient: credential cache save failed: %v", err)
		}
		return
	}
	if err := c.cache.Delete(ctx); err != nil {
		c.warn("goAuthClient: credential cache delete failed: %v", err)
	}
}

func (c *Client) dispatchEvent(event SessionEvent) {
	if c.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	c.events.Emit(ctx, event)
}

func (c *Client) emitEvent(eventType string, failure error) {
	c.dispatchEvent(transitionEvent(eventType, c.store.Current(), failure))
}

// sendRefresh posts the refresh credential to the renewal endpoint. It is an
// auth endpoint: a 401 here means the refresh credential itself was rejected
// and must never recurse into another renewal.
func (c *Client) sendRefresh(ctx context.Context, refreshToken string) (flows.RefreshReply, error) {
	var reply refreshResponse
	err := c.gateway.send(ctx, apiCall{
		method:       http.MethodPost,
		path:         "/users/refresh",
		body:         refreshRequest{RefreshToken: refreshToken},
		out:          &reply,
		authEndpoint: true,
	})
	if err != nil {
		return flows.RefreshReply{}, err
	}
	return flows.RefreshReply{
		Token:        reply.Token,
		RefreshToken: reply.RefreshToken,
	}, nil
}
