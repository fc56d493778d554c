package goAuthClient

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/goAuthClient/claims"
	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/MrEthical07/goAuthClient/role"
)

// signedCredential builds a signed access credential for tests. The signature
// is never verified client-side, but signing keeps the wire shape honest.
func signedCredential(t *testing.T, subject string, roles []string, expiresIn time.Duration) string {
	t.Helper()

	claimSet := jwt.MapClaims{"sub": subject}
	if len(roles) > 0 {
		claimSet["roles"] = roles
	}
	if expiresIn != 0 {
		claimSet["exp"] = time.Now().Add(expiresIn).Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claimSet).SignedString([]byte("unit-test-secret"))
	if err != nil {
		t.Fatalf("sign credential: %v", err)
	}
	return signed
}

func seededStore(t *testing.T, access, refresh string) *credential.Store {
	t.Helper()

	st := credential.NewStore(nil)
	identity := &claims.Identity{Subject: "user-1", Roles: role.NewSet(role.User)}
	if err := st.Set(credential.Pair{Access: access, Refresh: refresh}, identity); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return st
}
