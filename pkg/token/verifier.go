package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks tokens minted by an Issuer sharing the same secret.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string, opts ...Option) (*Verifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	s := buildSettings(opts)

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	return &Verifier{secret: []byte(secret), parser: jwt.NewParser(parserOpts...)}, nil
}

// Verify returns the claims of a valid token. The error is ErrExpired for an
// authentic token past its expiry and ErrInvalidSignature for anything else.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := v.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	switch {
	case err == nil && tkn.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	default:
		return nil, ErrInvalidSignature
	}
}
