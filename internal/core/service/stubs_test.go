package service

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudmart/accounts/internal/core/domain"
)

var errStoreDown = errors.New("connection refused")

// failingRepo fails every call with errStoreDown.
type failingRepo struct{}

func (failingRepo) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, errStoreDown
}
func (failingRepo) FindByID(context.Context, string) (*domain.User, error) { return nil, errStoreDown }
func (failingRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, errStoreDown
}
func (failingRepo) List(context.Context) ([]*domain.User, error) { return nil, errStoreDown }
func (failingRepo) UpsertCartItem(context.Context, string, domain.CartItem) (bool, error) {
	return false, errStoreDown
}
func (failingRepo) ClearCart(context.Context, string) error { return errStoreDown }
func (failingRepo) AddPromo(context.Context, string, string) (bool, error) {
	return false, errStoreDown
}
func (failingRepo) RemovePromo(context.Context, string, string) (bool, error) {
	return false, errStoreDown
}

// stubThrottle is an in-memory LoginThrottle with the same count-then-check
// behaviour as the Redis one.
type stubThrottle struct {
	mu       sync.Mutex
	limit    int
	attempts map[string]int
	err      error
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{limit: limit, attempts: make(map[string]int)}
}

func (t *stubThrottle) Attempt(_ context.Context, email string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attempts[email]++
	return t.attempts[email] <= t.limit, nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, email)
	return nil
}

// stubNameCache is an in-memory NameCache.
type stubNameCache struct {
	mu     sync.Mutex
	names  map[string]string
	getErr error
	gets   int
}

func newStubNameCache() *stubNameCache {
	return &stubNameCache{names: make(map[string]string)}
}

func (c *stubNameCache) Get(_ context.Context, userID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return "", false, c.getErr
	}
	name, ok := c.names[userID]
	return name, ok, nil
}

func (c *stubNameCache) Set(_ context.Context, userID, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[userID] = name
	return nil
}

// stubMinter returns "token:<userID>:<role>".
type stubMinter struct {
	err error
}

func (m stubMinter) Mint(userID, role string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "token:" + userID + ":" + role, nil
}
