// Package flows contains pure-function orchestrators for the client's
// credential operations.
//
// Each flow function (RunExchange, RunRefresh) accepts a typed dependency
// struct and returns results without side-effects beyond those dependencies.
// This design enables exhaustive unit testing with mock dependencies and
// keeps the root Client type thin.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the request gateway, the claims decoder,
// and the credential store. They do NOT own any of these resources —
// ownership stays with the Client.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goAuthClient (to avoid import cycles).
//   - Perform I/O directly — all I/O is mediated through dependency functions.
package flows
