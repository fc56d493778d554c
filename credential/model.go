package credential

import "github.com/MrEthical07/goAuthClient/claims"

// Pair defines a public type used by goAuthClient APIs.
//
// Pair instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Pair struct {
	Access  string
	Refresh string
}

// Complete describes the complete operation and its observable behavior.
//
// Complete reports whether both credentials are present. A pair is valid only
// together or both absent, never one without the other.
func (p Pair) Complete() bool {
	return p.Access != "" && p.Refresh != ""
}

// Empty describes the empty operation and its observable behavior.
//
// Empty reports whether both credentials are absent.
func (p Pair) Empty() bool {
	return p.Access == "" && p.Refresh == ""
}

// State defines a public type used by goAuthClient APIs.
//
// State instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type State uint8

const (
	// StateAnonymous is an exported constant or variable used by the client SDK.
	StateAnonymous State = iota
	// StateAuthenticated is an exported constant or variable used by the client SDK.
	StateAuthenticated
	// StateRenewing is an exported constant or variable used by the client SDK.
	StateRenewing
	// StateTerminated is an exported constant or variable used by the client SDK.
	StateTerminated
)

// String describes the string operation and its observable behavior.
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateRenewing:
		return "renewing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Reason defines a public type used by goAuthClient APIs.
//
// Reason instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Reason uint8

const (
	// ReasonNone is an exported constant or variable used by the client SDK.
	ReasonNone Reason = iota
	// ReasonUserInitiated is an exported constant or variable used by the client SDK.
	ReasonUserInitiated
	// ReasonRenewalFailed is an exported constant or variable used by the client SDK.
	ReasonRenewalFailed
)

// String describes the string operation and its observable behavior.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUserInitiated:
		return "user_initiated"
	case ReasonRenewalFailed:
		return "renewal_failed"
	default:
		return "unknown"
	}
}

// Snapshot defines a public type used by goAuthClient APIs.
//
// Snapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Snapshot struct {
	Pair     Pair
	State    State
	Reason   Reason
	Epoch    uint64
	Identity *claims.Identity
}
