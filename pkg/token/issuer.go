package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTTL = time.Hour

// Issuer signs claims with the process-wide secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	settings
}

// NewIssuer returns an Issuer whose minted tokens live for ttl. A non-positive
// ttl falls back to one hour.
func NewIssuer(secret string, ttl time.Duration, opts ...Option) (*Issuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{
		secret:   []byte(secret),
		ttl:      ttl,
		settings: buildSettings(opts),
	}, nil
}

// Issue signs c as is. The same claims always produce the same token.
func (i *Issuer) Issue(c Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &c).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Mint builds fresh claims for a user and signs them.
func (i *Issuer) Mint(userID, role string) (string, error) {
	now := i.now()
	return i.Issue(Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
}

// TTL reports how long minted tokens stay valid.
func (i *Issuer) TTL() time.Duration { return i.ttl }
