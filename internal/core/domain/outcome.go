package domain

// Messages returned to callers as business outcomes.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgLoggedIn           = "Logged in successfully"

	MsgUserRegistered = "User registered successfully"
	MsgUserExists     = "User already exists"

	MsgUserNotFound    = "User not found!"
	MsgQuantityUpdated = "Update quantity successfully"
	MsgItemAdded       = "Add item to cart successfully"
	MsgCartCleared     = "Cart cleared successfully"
	MsgItemIDRequired  = "Item ID is required"
	MsgBadPrice        = "Price must be a non-negative number"
	MsgBadQuantity     = "Quantity must be a positive integer"

	MsgUserIDNotFound = "User ID not found"
	MsgPromoRequired  = "Promo Code is required"
	MsgPromoAdded     = "Promo code added successfully"
	MsgPromoExists    = "Promo Code already exists for this user"
	MsgPromoRemoved   = "Promo code removed successfully"
	MsgPromoNotFound  = "Promo Code not found for this user"
)

// Outcome is the result of an operation whose negative results are expected
// and reported to the caller as data rather than as an error.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Succeeded(msg string) Outcome { return Outcome{Success: true, Message: msg} }

func Failed(msg string) Outcome { return Outcome{Success: false, Message: msg} }
