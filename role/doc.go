// Package role provides the ordered role set model and the membership decision
// used by goAuthClient authorization checks.
//
// # Semantics
//
// A [Set] is an ordered, de-duplicated sequence of role identifiers taken
// verbatim from a decoded access credential. Membership is exact: holding an
// elevated role does not satisfy a check for a lesser role unless that role is
// also present. [Set.Primary] exposes the first role for presentation callers
// that render a single role label.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O.
//
// # What this package must NOT do
//
//   - Access the network or consult any remote service.
//   - Import goAuthClient, claims, or credential.
//   - Imply a role hierarchy.
package role
