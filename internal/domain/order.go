package domain

import "time"

// OrderProduct is a snapshot of one cart line taken at checkout time.
// Price is the cart's recorded unit price, not re-fetched from the catalog.
type OrderProduct struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Products   []OrderProduct `json:"products"`
	TotalPrice float64        `json:"total_price"`
	CreatedAt  time.Time      `json:"created_at"`
}
