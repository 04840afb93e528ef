package ports

import (
	"context"

	"github.com/cloudmart/accounts/internal/core/domain"
)

// CredentialStore is the read-only view of user records used for login.
type CredentialStore interface {
	// FindByEmail returns domain.ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
