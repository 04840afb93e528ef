package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cloudmart/accounts/internal/api/metrics"
	"github.com/cloudmart/accounts/internal/core/domain"
	"github.com/cloudmart/accounts/internal/core/ports"
	"github.com/cloudmart/accounts/internal/validation"
)

// NameCache abstracts the username read-through cache (Redis). Usernames
// never change, so entries are never invalidated.
type NameCache interface {
	Get(ctx context.Context, userID string) (name string, ok bool, err error)
	Set(ctx context.Context, userID, name string) error
}

// AccountOption customises an AccountService.
type AccountOption func(*AccountService)

// WithNameCache enables the username cache.
func WithNameCache(c NameCache) AccountOption {
	return func(s *AccountService) { s.names = c }
}

// WithBcryptCost overrides bcrypt.DefaultCost for new password hashes.
func WithBcryptCost(cost int) AccountOption {
	return func(s *AccountService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) AccountOption {
	return func(s *AccountService) { s.now = now }
}

var _ ports.AccountService = (*AccountService)(nil)

type AccountService struct {
	repo       ports.UserRepository
	validate   *validation.Validator
	names      NameCache
	bcryptCost int
	now        func() time.Time
	log        zerolog.Logger
}

func NewAccountService(repo ports.UserRepository, validate *validation.Validator, log zerolog.Logger, opts ...AccountOption) *AccountService {
	s := &AccountService{
		repo:       repo,
		validate:   validate,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		log:        log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register validates the input, hashes the password and inserts the user.
// Email uniqueness is enforced by the store, so concurrent registrations of
// the same email yield exactly one success.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (domain.Outcome, error) {
	if violations := s.validate.Registration(in.Username, in.Email, in.Password); len(violations) > 0 {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return domain.Failed(strings.Join(violations, ", ")), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		CreatedAt:    s.now().UTC(),
		Cart:         []domain.CartItem{},
		Promos:       []string{},
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return domain.Failed(domain.MsgUserExists), nil
		}
		return domain.Outcome{}, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return domain.Succeeded(domain.MsgUserRegistered), nil
}

// ListUsers returns every user without password hashes.
func (s *AccountService) ListUsers(ctx context.Context) ([]ports.UserSummary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]ports.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, ports.UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}

// GetUserName returns "" for an unknown user.
func (s *AccountService) GetUserName(ctx context.Context, userID string) (string, error) {
	if s.names != nil {
		name, ok, err := s.names.Get(ctx, userID)
		switch {
		case err != nil:
			metrics.NameCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Str("user_id", userID).Msg("name cache read failed")
		case ok:
			metrics.NameCacheTotal.WithLabelValues("hit").Inc()
			return name, nil
		default:
			metrics.NameCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get username: %w", err)
	}

	if s.names != nil {
		if err := s.names.Set(ctx, userID, user.Username); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("name cache write failed")
		}
	}
	return user.Username, nil
}

// UpdateCart sets the quantity of an existing item or appends a new one.
func (s *AccountService) UpdateCart(ctx context.Context, in ports.CartItemInput) (domain.Outcome, error) {
	switch {
	case strings.TrimSpace(in.ItemID) == "":
		return domain.Failed(domain.MsgItemIDRequired), nil
	case !(in.Price >= 0) || math.IsInf(in.Price, 1):
		return domain.Failed(domain.MsgBadPrice), nil
	case in.Quantity <= 0:
		return domain.Failed(domain.MsgBadQuantity), nil
	}

	added, err := s.repo.UpsertCartItem(ctx, in.UserID, domain.CartItem{
		ItemID:   in.ItemID,
		ItemName: in.ItemName,
		Price:    in.Price,
		Quantity: in.Quantity,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Failed(domain.MsgUserNotFound), nil
		}
		return domain.Outcome{}, fmt.Errorf("update cart: %w", err)
	}

	if added {
		metrics.CartUpdatesTotal.WithLabelValues("added").Inc()
		return domain.Succeeded(domain.MsgItemAdded), nil
	}
	metrics.CartUpdatesTotal.WithLabelValues("updated").Inc()
	return domain.Succeeded(domain.MsgQuantityUpdated), nil
}

// GetCartItems returns an empty cart for an unknown user.
func (s *AccountService) GetCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return []domain.CartItem{}, nil
		}
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	if user.Cart == nil {
		return []domain.CartItem{}, nil
	}
	return user.Cart, nil
}

func (s *AccountService) ClearCart(ctx context.Context, userID string) (domain.Outcome, error) {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Failed(domain.MsgUserNotFound), nil
		}
		return domain.Outcome{}, fmt.Errorf("clear cart: %w", err)
	}
	metrics.CartUpdatesTotal.WithLabelValues("cleared").Inc()
	return domain.Succeeded(domain.MsgCartCleared), nil
}

// AddPromoCode rejects a code the user already holds; a retrying caller
// should read that rejection as "already applied".
func (s *AccountService) AddPromoCode(ctx context.Context, userID, code string) (domain.Outcome, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Failed(domain.MsgPromoRequired), nil
	}

	added, err := s.repo.AddPromo(ctx, userID, code)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.PromoChangesTotal.WithLabelValues("add", "user_not_found").Inc()
			return domain.Failed(domain.MsgUserIDNotFound), nil
		}
		return domain.Outcome{}, fmt.Errorf("add promo code: %w", err)
	}
	if !added {
		metrics.PromoChangesTotal.WithLabelValues("add", "rejected").Inc()
		return domain.Failed(domain.MsgPromoExists), nil
	}
	metrics.PromoChangesTotal.WithLabelValues("add", "applied").Inc()
	return domain.Succeeded(domain.MsgPromoAdded), nil
}

// RetrievePromoCodes reports an unknown user as domain.ErrUserNotFound rather
// than as an empty list.
func (s *AccountService) RetrievePromoCodes(ctx context.Context, userID string) ([]string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("retrieve promo codes: %w", err)
	}
	if user.Promos == nil {
		return []string{}, nil
	}
	return user.Promos, nil
}

func (s *AccountService) RemovePromoCode(ctx context.Context, userID, code string) (domain.Outcome, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Failed(domain.MsgPromoRequired), nil
	}

	removed, err := s.repo.RemovePromo(ctx, userID, code)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.PromoChangesTotal.WithLabelValues("remove", "user_not_found").Inc()
			return domain.Failed(domain.MsgUserIDNotFound), nil
		}
		return domain.Outcome{}, fmt.Errorf("remove promo code: %w", err)
	}
	if !removed {
		metrics.PromoChangesTotal.WithLabelValues("remove", "rejected").Inc()
		return domain.Failed(domain.MsgPromoNotFound), nil
	}
	metrics.PromoChangesTotal.WithLabelValues("remove", "applied").Inc()
	return domain.Succeeded(domain.MsgPromoRemoved), nil
}
