package claims

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/goAuthClient/role"
)

// ErrMalformedCredential is an exported constant or variable used by the client SDK.
var ErrMalformedCredential = errors.New("malformed access credential")

// ErrExpiredCredential is an exported constant or variable used by the client SDK.
var ErrExpiredCredential = errors.New("expired access credential")

// Config defines a public type used by goAuthClient APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// Leeway is tolerated clock skew when checking the embedded expiry claim.
	Leeway time.Duration
	// DefaultRole is assumed when the credential carries no roles claim.
	DefaultRole string
	// Now overrides the clock; nil means time.Now. Used by tests.
	Now func() time.Time
}

// Identity defines a public type used by goAuthClient APIs.
//
// Identity instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Identity struct {
	Subject string
	Roles   role.Set
}

// Clone describes the clone operation and its observable behavior.
//
// Clone returns an independent copy so a snapshot holder never observes later
// mutation of the source.
func (id *Identity) Clone() *Identity {
	if id == nil {
		return nil
	}
	return &Identity{
		Subject: id.Subject,
		Roles:   id.Roles.Clone(),
	}
}

// Decoder defines a public type used by goAuthClient APIs.
//
// Decoder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Decoder struct {
	config Config
}

type accessClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// NewDecoder describes the newdecoder operation and its observable behavior.
//
// NewDecoder may return an error when input validation fails.
// NewDecoder does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewDecoder(cfg Config) (*Decoder, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.DefaultRole == "" {
		cfg.DefaultRole = role.User
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Decoder{config: cfg}, nil
}

// Decode describes the decode operation and its observable behavior.
//
// Decode parses tokenStr into an [Identity] without verifying its signature.
// It returns [ErrMalformedCredential] when the credential cannot be parsed
// into the expected structure and [ErrExpiredCredential] when the embedded
// expiry claim is in the past beyond the configured leeway.
// Decode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d *Decoder) Decode(tokenStr string) (*Identity, error) {
	if tokenStr == "" {
		return nil, ErrMalformedCredential
	}

	parsed := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, parsed); err != nil {
		return nil, ErrMalformedCredential
	}

	subject, err := parsed.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrMalformedCredential
	}

	if parsed.ExpiresAt != nil {
		deadline := parsed.ExpiresAt.Time.Add(d.config.Leeway)
		if d.config.Now().After(deadline) {
			return nil, ErrExpiredCredential
		}
	}

	roles := role.NewSet(parsed.Roles...)
	if len(roles) == 0 {
		roles = role.NewSet(d.config.DefaultRole)
	}

	return &Identity{
		Subject: subject,
		Roles:   roles,
	}, nil
}
