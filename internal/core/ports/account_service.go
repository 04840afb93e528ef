package ports

import (
	"context"
	"time"

	"github.com/cloudmart/accounts/internal/core/domain"
)

// RegisterInput carries the fields collected by the registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// CartItemInput carries an updateCart request.
type CartItemInput struct {
	UserID   string
	ItemID   string
	ItemName string
	Price    float64
	Quantity int
}

// UserSummary is the public projection of a user. It never carries the
// password hash.
type UserSummary struct {
	ID        string
	Username  string
	Email     string
	Role      string
	CreatedAt time.Time
}

// AccountService owns registration, cart and promo-code operations.
//
// Expected negative results come back as a domain.Outcome with a nil error;
// a non-nil error always means an infrastructure fault, except for
// RetrievePromoCodes which reports an unknown user as domain.ErrUserNotFound.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (domain.Outcome, error)
	ListUsers(ctx context.Context) ([]UserSummary, error)
	GetUserName(ctx context.Context, userID string) (string, error)
	UpdateCart(ctx context.Context, in CartItemInput) (domain.Outcome, error)
	GetCartItems(ctx context.Context, userID string) ([]domain.CartItem, error)
	ClearCart(ctx context.Context, userID string) (domain.Outcome, error)
	AddPromoCode(ctx context.Context, userID, code string) (domain.Outcome, error)
	RetrievePromoCodes(ctx context.Context, userID string) ([]string, error)
	RemovePromoCode(ctx context.Context, userID, code string) (domain.Outcome, error)
}
