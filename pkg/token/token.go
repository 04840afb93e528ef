// Package token mints and verifies the signed access tokens handed out by the
// identity service.
//
// Tokens are HS256 JWTs. The signing secret is loaded once at startup and
// never changes for the lifetime of the process, so an Issuer and a Verifier
// built from the same secret can be shared freely between goroutines.
// Verification is purely local: it needs the secret and nothing else.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSignature covers malformed, tampered and foreign tokens.
	ErrInvalidSignature = errors.New("token: invalid signature")
	// ErrExpired is returned for a well-signed token past its expiry.
	ErrExpired = errors.New("token: expired")
	// ErrEmptySecret is returned when an Issuer or Verifier is built without a key.
	ErrEmptySecret = errors.New("token: empty signing secret")
)

// Claims binds a user identifier and role to a validity window.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Option configures an Issuer or a Verifier.
type Option func(*settings)

type settings struct {
	issuer string
	now    func() time.Time
}

// WithIssuer sets the "iss" claim written by Mint and required by Verify.
func WithIssuer(iss string) Option {
	return func(s *settings) { s.issuer = iss }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func buildSettings(opts []Option) settings {
	s := settings{now: time.Now}
	for _, o := range opts {
		o(&s)
	}
	return s
}
