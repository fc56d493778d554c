package goAuthClient

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/MrEthical07/goAuthClient/internal/flows"
)

// renewalFlight is the shared handle for one in-flight renewal. Every caller
// that joined before resolution observes the identical outcome through done
// and err; no joiner ever triggers a second remote call.
type renewalFlight struct {
	epoch uint64
	done  chan struct{}
	err   error
}

// renewalCoordinator guarantees at most one renewal call is in flight for the
// current session epoch and fans every concurrent caller into it.
type renewalCoordinator struct {
	store   *credential.Store
	run     func(ctx context.Context, refreshToken string) flows.RefreshResult
	metrics *Metrics
	events  func(event SessionEvent)
	warn    func(string, ...any)

	mu       sync.Mutex
	inflight *renewalFlight
}

// Renew joins the renewal in flight for the current session epoch, or starts
// a new one. On success the store holds the renewed pair before any waiter
// resumes; on failure the session is terminated with ReasonRenewalFailed and
// every waiter receives an error wrapping ErrSessionExpired.
func (rc *renewalCoordinator) Renew(ctx context.Context) error {
	rc.mu.Lock()
	snap := rc.store.Current()
	if f := rc.inflight; f != nil && f.epoch == snap.Epoch {
		rc.mu.Unlock()
		rc.metrics.Inc(MetricRenewalJoined)
		select {
		case <-f.done:
			return f.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if snap.Pair.Refresh == "" {
		rc.mu.Unlock()
		return ErrNotAuthenticated
	}

	f := &renewalFlight{epoch: snap.Epoch, done: make(chan struct{})}
	rc.inflight = f
	rc.mu.Unlock()

	rc.metrics.Inc(MetricRenewalStarted)
	rc.store.MarkRenewing()

	f.err = rc.execute(ctx, f.epoch, snap.Pair.Refresh)

	rc.mu.Lock()
	if rc.inflight == f {
		rc.inflight = nil
	}
	rc.mu.Unlock()
	close(f.done)

	return f.err
}

func (rc *renewalCoordinator) execute(ctx context.Context, epoch uint64, refreshToken string) error {
	res := rc.run(ctx, refreshToken)

	if res.Failure != flows.RefreshFailureNone {
		rc.metrics.Inc(MetricRenewalFailure)
		if rc.store.ClearIfEpoch(epoch, credential.ReasonRenewalFailed) {
			rc.metrics.Inc(MetricSessionExpired)
			rc.emit(EventSessionExpired, res.Err)
		}
		if res.Err != nil {
			return fmt.Errorf("%w: %v", ErrSessionExpired, res.Err)
		}
		return ErrSessionExpired
	}

	committed, err := rc.store.SetIfEpoch(epoch, res.Pair, res.Identity)
	if err != nil {
		rc.metrics.Inc(MetricRenewalFailure)
		if rc.store.ClearIfEpoch(epoch, credential.ReasonRenewalFailed) {
			rc.emit(EventSessionExpired, err)
		}
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	if !committed {
		// The session epoch moved on while the renewal was in flight; the
		// result belongs to a session that no longer exists.
		if rc.warn != nil {
			rc.warn("goAuthClient: renewal outcome discarded after session change")
		}
		return ErrSessionExpired
	}

	rc.metrics.Inc(MetricRenewalSuccess)
	rc.emit(EventRenewal, nil)
	return nil
}

func (rc *renewalCoordinator) emit(eventType string, failure error) {
	if rc.events == nil {
		return
	}
	rc.events(transitionEvent(eventType, rc.store.Current(), failure))
}
