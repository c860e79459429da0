// Package token issues and verifies signed, time-limited session tokens.
//
// A token embeds a single claimed identity (the username) and expires after
// the configured session TTL. Verification is side-effect-free: the server
// keeps no revocation state, a session ends when the client drops the cookie
// or the token expires.
package token

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for any token that fails signature,
// structure, or expiry checks. Callers must not distinguish further.
var ErrInvalidToken = errors.New("token: invalid token")

// Claims is the payload carried by a session token.
type Claims struct {
	gojwt.RegisteredClaims
	Username string `json:"username"`
}

// Service issues and verifies HS256-signed session tokens.
type Service struct {
	cfg Config
}

// NewService creates a new session token service.
func NewService(cfg *Config) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}
	return &Service{cfg: *cfg}, nil
}

// SessionTTL returns the configured token lifetime.
func (s *Service) SessionTTL() time.Duration {
	return s.cfg.SessionTTL
}

// Issue creates a signed token claiming the given identity, expiring
// SessionTTL from now.
func (s *Service) Issue(username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
		Username: username,
	}
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify validates a token string and returns the identity it claims.
// It fails with ErrInvalidToken when the signature does not match, the
// payload is malformed, or the token is expired.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Username == "" {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}

// keyFunc is the jwt.Keyfunc used during token parsing.
func (s *Service) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("token: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}
