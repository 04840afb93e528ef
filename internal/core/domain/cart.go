package domain

// CartItem is a single line in a user's cart, keyed by ItemID.
type CartItem struct {
	ItemID          string   `json:"item_id"`
	ItemName        string   `json:"item_name"`
	Price           float64  `json:"price"`
	Quantity        int      `json:"quantity"`
	DiscountedValue *float64 `json:"discounted_value,omitempty"`
}
