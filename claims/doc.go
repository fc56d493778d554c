// Package claims decodes opaque access credentials into identities without
// contacting the network.
//
// # Trust boundary
//
// The [Decoder] performs best-effort structural parsing only. Signature
// verification is the issuing server's responsibility; a client holding a
// token it cannot verify gains nothing from pretending otherwise. Decoding
// is local, side-effect-free, and deterministic for a given credential.
//
// # Architecture boundaries
//
// This package owns the [Identity] model and the decode path. It does NOT
// store credentials, issue tokens, or decide authorization — those
// responsibilities belong to the credential store and the role package.
//
// # What this package must NOT do
//
//   - Perform I/O of any kind.
//   - Verify cryptographic signatures.
//   - Import goAuthClient or credential (no upward imports).
package claims
