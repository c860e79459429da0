package authz

import (
	"github.com/gin-gonic/gin"
)

// CookieName is the cookie that carries the session credential.
const CookieName = "token"

// CredentialState classifies the credential attached to a request.
type CredentialState int

const (
	// CredentialAbsent means no credential was presented (anonymous).
	// Distinct from an invalid credential.
	CredentialAbsent CredentialState = iota
	// CredentialInvalid means a credential was presented but failed
	// verification (malformed, tampered, or expired).
	CredentialInvalid
	// CredentialValid means the credential verified and claims an identity.
	CredentialValid
)

// Identity is the resolved caller identity for one request.
type Identity struct {
	State    CredentialState
	Username string // set only when State is CredentialValid
}

// Authenticated reports whether the request carries a valid credential.
func (i Identity) Authenticated() bool {
	return i.State == CredentialValid
}

// TokenVerifier validates a raw credential and returns the identity it claims.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Resolver extracts the caller's claimed identity from a request's cookie.
type Resolver struct {
	tokens TokenVerifier
}

// NewResolver creates an identity resolver backed by a token verifier.
func NewResolver(tokens TokenVerifier) *Resolver {
	return &Resolver{tokens: tokens}
}

// Resolve reads the session cookie from the request. Absence is not an
// error: it resolves to the anonymous state. A cookie that fails
// verification resolves to the invalid state, which downstream gates must
// convert to a denial.
func (r *Resolver) Resolve(c *gin.Context) Identity {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return Identity{State: CredentialAbsent}
	}
	username, err := r.tokens.Verify(raw)
	if err != nil {
		return Identity{State: CredentialInvalid}
	}
	return Identity{State: CredentialValid, Username: username}
}
