package role

import "strings"

const (
	// User is an exported constant or variable used by the client SDK.
	User = "ROLE_USER"
	// Admin is an exported constant or variable used by the client SDK.
	Admin = "ROLE_ADMIN"
	// Manager is an exported constant or variable used by the client SDK.
	Manager = "ROLE_MANAGER"
)

// Set defines a public type used by goAuthClient APIs.
//
// Set instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Set []string

// NewSet describes the newset operation and its observable behavior.
//
// NewSet normalizes the given role identifiers: surrounding whitespace is
// trimmed, empty entries are dropped, and duplicates are removed while the
// original order is preserved.
func NewSet(roles ...string) Set {
	if len(roles) == 0 {
		return nil
	}
	out := make(Set, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Has describes the has operation and its observable behavior.
//
// Has reports whether required is a member of the set. Membership is exact:
// no role implies another.
func (s Set) Has(required string) bool {
	for _, r := range s {
		if r == required {
			return true
		}
	}
	return false
}

// Primary describes the primary operation and its observable behavior.
//
// Primary returns the first role in the set, or the empty string for an empty
// set. It exists for presentation callers that display one role label.
func (s Set) Primary() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Clone describes the clone operation and its observable behavior.
//
// Clone returns an independent copy so that callers holding a snapshot never
// observe later mutations of the source slice.
func (s Set) Clone() Set {
	if len(s) == 0 {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}
