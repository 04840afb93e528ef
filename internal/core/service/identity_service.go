package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cloudmart/accounts/internal/api/metrics"
	"github.com/cloudmart/accounts/internal/core/domain"
	"github.com/cloudmart/accounts/internal/core/ports"
)

// TokenMinter issues an access token for an authenticated user.
type TokenMinter interface {
	Mint(userID, role string) (string, error)
}

// LoginThrottle abstracts the per-email attempt counter (Redis). Attempt
// must count and check in one atomic step.
type LoginThrottle interface {
	Attempt(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

// dummyHash is compared against when the email is unknown so that both
// failure paths spend the same bcrypt work.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("storefront-placeholder"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("identity: build placeholder hash: %v", err))
	}
	return h
})

var _ ports.IdentityService = (*IdentityService)(nil)

// IdentityService verifies credentials and issues access tokens.
type IdentityService struct {
	creds    ports.CredentialStore
	tokens   TokenMinter
	throttle LoginThrottle
	log      zerolog.Logger
}

// NewIdentityService returns an IdentityService. throttle may be nil.
func NewIdentityService(creds ports.CredentialStore, tokens TokenMinter, throttle LoginThrottle, log zerolog.Logger) *IdentityService {
	return &IdentityService{creds: creds, tokens: tokens, throttle: throttle, log: log}
}

// Authenticate never tells an unknown email apart from a wrong password.
// Storage faults come back as errors; domain.ErrTooManyAttempts means the
// email is temporarily locked out.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return invalidCredentials(), nil
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Attempt(ctx, email)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		case !allowed:
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("authenticate: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return invalidCredentials(), nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return invalidCredentials(), nil
	}

	role := user.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	token, err := s.tokens.Mint(user.ID, role)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.AuthResult{Success: true, Message: domain.MsgLoggedIn, Token: token}, nil
}

func invalidCredentials() *ports.AuthResult {
	return &ports.AuthResult{Success: false, Message: domain.MsgInvalidCredentials}
}
