package domain

import (
	"strings"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a registered storefront account together with its cart and promo
// entitlements.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	Cart         []CartItem `json:"cart,omitempty"`
	Promos       []string   `json:"promos,omitempty"`
}

// NormalizeEmail returns the login key form of an e-mail address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
