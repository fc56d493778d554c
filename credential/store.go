package credential

import (
	"errors"
	"sync"

	"github.com/MrEthical07/goAuthClient/claims"
)

// ErrIncompletePair is an exported constant or variable used by the client SDK.
var ErrIncompletePair = errors.New("credential pair incomplete")

// ErrMissingIdentity is an exported constant or variable used by the client SDK.
var ErrMissingIdentity = errors.New("credential pair requires a decoded identity")

// Store defines a public type used by goAuthClient APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// The transition hook, when set, is invoked synchronously after each state
// change has been fully applied. Mutations are serialized, so a hook always
// observes transitions in the order they happened. A hook may read the store
// but must never mutate it, or it will deadlock.
type Store struct {
	transitionMu sync.Mutex
	onTransition func(Snapshot)

	mu       sync.RWMutex
	pair     Pair
	state    State
	reason   Reason
	epoch    uint64
	identity *claims.Identity
}

// NewStore describes the newstore operation and its observable behavior.
//
// NewStore returns an empty store in the Anonymous state. onTransition may be
// nil.
// NewStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewStore(onTransition func(Snapshot)) *Store {
	return &Store{onTransition: onTransition}
}

// Set describes the set operation and its observable behavior.
//
// Set replaces the credential pair atomically, records the freshly decoded
// identity in lock-step, increments the session epoch, and transitions to
// Authenticated. Partial pairs are rejected, so no reader ever observes an
// access credential without its matching refresh credential.
// Set may return an error when input validation fails.
func (s *Store) Set(pair Pair, identity *claims.Identity) error {
	if !pair.Complete() {
		return ErrIncompletePair
	}
	if identity == nil {
		return ErrMissingIdentity
	}

	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	s.mu.Lock()
	s.pair = pair
	s.identity = identity.Clone()
	s.state = StateAuthenticated
	s.reason = ReasonNone
	s.epoch++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear removes the pair and the identity atomically, increments the session
// epoch, and transitions to Terminated carrying the given reason. Clearing an
// already-empty store is a no-op and reports false, which makes logout
// idempotent.
func (s *Store) Clear(reason Reason) bool {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	s.mu.Lock()
	if s.pair.Empty() {
		s.mu.Unlock()
		return false
	}
	s.pair = Pair{}
	s.identity = nil
	s.state = StateTerminated
	s.reason = reason
	s.epoch++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// MarkRenewing describes the markrenewing operation and its observable behavior.
//
// MarkRenewing transitions Authenticated to Renewing while a renewal is in
// flight. The pair, identity, and epoch are untouched; outbound calls may
// still start and read the current credential. It reports false when the
// store is not Authenticated.
func (s *Store) MarkRenewing() bool {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return false
	}
	s.state = StateRenewing
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// SetIfEpoch describes the setifepoch operation and its observable behavior.
//
// SetIfEpoch applies Set only when the session epoch still equals expected,
// reporting whether the pair was committed. A renewal begun under one epoch
// can therefore never overwrite a session established after an intervening
// logout or login.
func (s *Store) SetIfEpoch(expected uint64, pair Pair, identity *claims.Identity) (bool, error) {
	if !pair.Complete() {
		return false, ErrIncompletePair
	}
	if identity == nil {
		return false, ErrMissingIdentity
	}

	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	s.mu.Lock()
	if s.epoch != expected {
		s.mu.Unlock()
		return false, nil
	}
	s.pair = pair
	s.identity = identity.Clone()
	s.state = StateAuthenticated
	s.reason = ReasonNone
	s.epoch++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true, nil
}

// ClearIfEpoch describes the clearifepoch operation and its observable behavior.
//
// ClearIfEpoch applies Clear only when the session epoch still equals
// expected, reporting whether a transition happened.
func (s *Store) ClearIfEpoch(expected uint64, reason Reason) bool {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	s.mu.Lock()
	if s.epoch != expected || s.pair.Empty() {
		s.mu.Unlock()
		return false
	}
	s.pair = Pair{}
	s.identity = nil
	s.state = StateTerminated
	s.reason = reason
	s.epoch++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// Current describes the current operation and its observable behavior.
//
// Current returns a snapshot copy, never a live mutable reference.
// Current does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// State describes the state operation and its observable behavior.
//
// State does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Epoch describes the epoch operation and its observable behavior.
//
// Epoch does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Identity describes the identity operation and its observable behavior.
//
// Identity returns a copy of the last decoded identity, or nil when the store
// holds no credential.
// Identity does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Identity() *claims.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Pair:     s.pair,
		State:    s.state,
		Reason:   s.reason,
		Epoch:    s.epoch,
		Identity: s.identity.Clone(),
	}
}

func (s *Store) notify(snap Snapshot) {
	if s.onTransition != nil {
		s.onTransition(snap)
	}
}
