// Package credential owns the mutable session state of a goAuthClient
// instance: the access/refresh credential pair, the session state machine, and
// the optional Redis-backed credential cache.
//
// # Atomicity
//
// The [Store] is the only shared mutable resource in the SDK. Every mutation
// is applied under a single write lock and every read returns a [Snapshot]
// copy, so a reader never observes an access credential without its paired
// refresh credential, a stale identity after a renewal, or a half-applied
// transition.
//
// # Epochs
//
// A session epoch increments on every Set and Clear. The renewal coordinator
// keys its in-flight operation by epoch so a renewal begun before a logout or
// re-login can never commit its result into the new session.
//
// # Architecture boundaries
//
// This package owns the [Store], the [Pair]/[State] model, and the [Cache]
// (Redis persistence for daemon-style deployments). It does NOT decode
// credentials, talk to the account service, or decide when to renew — those
// responsibilities belong to the claims package and the root client.
//
// # What this package must NOT do
//
//   - Import goAuthClient (no upward imports).
//   - Issue network calls outside of [Cache] methods.
//   - Persist a decoded identity; identity is always recomputed from the
//     stored access credential.
package credential
