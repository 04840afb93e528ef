package ports

import (
	"context"

	"github.com/cloudmart/accounts/internal/core/domain"
)

// UserRepository persists user documents. Every mutating method is a single
// atomic operation against one user; none of them reads the document and
// writes it back.
//
// Methods addressing a user by ID return domain.ErrUserNotFound when the user
// does not exist or the ID is malformed.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the email
	// is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)

	// UpsertCartItem overwrites the quantity of the item with the same ItemID
	// or appends the item when none matches. added reports which one happened.
	UpsertCartItem(ctx context.Context, userID string, item domain.CartItem) (added bool, err error)
	ClearCart(ctx context.Context, userID string) error

	// AddPromo adds code to the user's promos unless already present.
	AddPromo(ctx context.Context, userID, code string) (added bool, err error)
	// RemovePromo removes code from the user's promos if present.
	RemovePromo(ctx context.Context, userID, code string) (removed bool, err error)
}
