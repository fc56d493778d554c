// Package goAuthClient provides a client SDK for a remote account service:
// it authenticates a user, holds the short-lived access/refresh credential
// pair, authorizes outbound calls, coordinates exactly-once credential
// renewal under concurrent traffic, and exposes role-based access decisions.
//
// The package is designed for concurrent workloads: Client methods are safe
// to call from multiple goroutines after initialization through
// [Builder.Build]. Many requests may be in flight at once; when several of
// them hit an authorization failure simultaneously, exactly one renewal call
// reaches the remote service and every waiter observes its outcome.
//
// # Architecture boundaries
//
// goAuthClient is the public surface. It exposes [Client], [Builder],
// [Config], and value types (User, SessionEvent, MetricsSnapshot, etc.). All
// internal coordination — flow orchestration, renewal fan-in, event dispatch —
// lives under internal/ and is never exported. The credential, claims, and
// role sub-packages hold the session model and are importable on their own.
//
// # What this package must NOT do
//
//   - Verify credential signatures; the issuing server owns that. The claims
//     decoder performs best-effort structural parsing only.
//   - Consult the network for a role-based access decision. [Client.HasRole]
//     is a pure function of the last successfully decoded identity.
//   - Retry a request more than once, or retry anything other than an
//     authorization failure. Network, server, and validation errors
//     propagate to the caller unchanged.
package goAuthClient
