// Package internal contains helper utilities that are intentionally private to
// goAuthClient.
//
// # Sub-packages
//
//   - flows — pure-function flow orchestrators for credential exchange and
//     renewal
//
// # What this package must NOT do
//
//   - Export types that appear in the public goAuthClient API.
//   - Be imported by any package outside the goAuthClient module.
package internal
