// Package memory is an in-process user store with the same atomicity
// guarantees as the MongoDB repository. It backs STORE_DRIVER=memory and the
// service and transport tests.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/cloudmart/accounts/internal/core/domain"
)

// Store implements ports.UserRepository and ports.CredentialStore. A single
// mutex serialises every operation, which makes each one atomic.
type Store struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

func NewStore() *Store {
	return &Store{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (s *Store) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	u := cloneUser(user)
	u.ID = newID()
	if u.Cart == nil {
		u.Cart = []domain.CartItem{}
	}
	if u.Promos == nil {
		u.Promos = []string{}
	}
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return cloneUser(u), nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(s.byID[id]), nil
}

// List returns users ordered by creation time, then ID.
func (s *Store) List(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpsertCartItem(ctx context.Context, userID string, item domain.CartItem) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	for i := range u.Cart {
		if u.Cart[i].ItemID == item.ItemID {
			u.Cart[i].Quantity = item.Quantity
			return false, nil
		}
	}
	u.Cart = append(u.Cart, cloneItem(item))
	return true, nil
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Cart = []domain.CartItem{}
	return nil
}

func (s *Store) AddPromo(ctx context.Context, userID, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	for _, p := range u.Promos {
		if p == code {
			return false, nil
		}
	}
	u.Promos = append(u.Promos, code)
	return true, nil
}

func (s *Store) RemovePromo(ctx context.Context, userID, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	for i, p := range u.Promos {
		if p == code {
			u.Promos = append(u.Promos[:i:i], u.Promos[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// newID returns a 24-character hex identifier, the same shape as a MongoDB
// ObjectID so callers cannot tell the stores apart.
func newID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func cloneItem(it domain.CartItem) domain.CartItem {
	if it.DiscountedValue != nil {
		v := *it.DiscountedValue
		it.DiscountedValue = &v
	}
	return it
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Cart != nil {
		c.Cart = make([]domain.CartItem, len(u.Cart))
		for i, it := range u.Cart {
			c.Cart[i] = cloneItem(it)
		}
	}
	if u.Promos != nil {
		c.Promos = append([]string(nil), u.Promos...)
		if c.Promos == nil {
			c.Promos = []string{}
		}
	}
	return &c
}
