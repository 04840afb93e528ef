package rpc

import (
	"time"

	"github.com/cloudmart/accounts/internal/core/domain"
	"github.com/cloudmart/accounts/internal/core/ports"
)

// ── Identity ──────────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ── Account ───────────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StatusResponse is the business outcome of a mutating call.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []UserInfo `json:"users"`
}

// UserInfo is a user as listed to administrators. It has no password field.
type UserInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserIDRequest addresses a single user. GetUserName, GetCartItems, ClearCart
// and RetrievePromoCodes take it.
type UserIDRequest struct {
	UserID string `json:"userId"`
}

type UserNameResponse struct {
	Name string `json:"name"`
}

type UpdateCartRequest struct {
	UserID   string  `json:"userId"`
	ItemID   string  `json:"itemId"`
	ItemName string  `json:"itemName"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type CartItem struct {
	ItemID          string   `json:"itemId"`
	ItemName        string   `json:"itemName"`
	Price           float64  `json:"price"`
	Quantity        int      `json:"quantity"`
	DiscountedValue *float64 `json:"discountedValue,omitempty"`
}

type CartItemsResponse struct {
	Items []CartItem `json:"items"`
}

type PromoCodeRequest struct {
	UserID      string `json:"userId"`
	PromoCodeID string `json:"promoCodeId"`
}

type PromoCodesResponse struct {
	Promos []string `json:"promos"`
}

// OwnerID names the user a request acts on. The auth interceptor compares it
// with the caller's token.
func (r *UserIDRequest) OwnerID() string     { return r.UserID }
func (r *UpdateCartRequest) OwnerID() string { return r.UserID }
func (r *PromoCodeRequest) OwnerID() string  { return r.UserID }

func statusResponse(o domain.Outcome) *StatusResponse {
	return &StatusResponse{Success: o.Success, Message: o.Message}
}

func userInfos(in []ports.UserSummary) []UserInfo {
	out := make([]UserInfo, 0, len(in))
	for _, u := range in {
		out = append(out, UserInfo{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	return out
}

func cartItems(in []domain.CartItem) []CartItem {
	out := make([]CartItem, 0, len(in))
	for _, it := range in {
		out = append(out, CartItem{
			ItemID:          it.ItemID,
			ItemName:        it.ItemName,
			Price:           it.Price,
			Quantity:        it.Quantity,
			DiscountedValue: it.DiscountedValue,
		})
	}
	return out
}
