package domain

// CartItem is one aggregated cart entry keyed by ProductID. Display and
// pricing fields are copied from the product at the moment it was added.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// CartState is a point-in-time view of a cart. TotalItems and TotalPrice
// are derived from Items and are recomputed on every mutation.
type CartState struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}
