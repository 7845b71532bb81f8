package catalog

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// ProductUpdate carries the fields of a partial product update; nil fields
// are left unchanged.
type ProductUpdate struct {
	Category    *string
	Title       *string
	Description *string
	Price       *float64
	Image       *string
}

// ProductRepository defines the interface for product data operations
// Consumers define this interface, not the MongoDB implementation
type ProductRepository interface {
	ListProducts(ctx context.Context, category string) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, update ProductUpdate) error
	DeleteProduct(ctx context.Context, id string) error
}
