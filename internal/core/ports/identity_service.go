package ports

import "context"

// AuthResult is the outcome of a login attempt.
type AuthResult struct {
	Success bool
	Message string
	Token   string
}

// IdentityService verifies credentials and issues access tokens.
type IdentityService interface {
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
}
