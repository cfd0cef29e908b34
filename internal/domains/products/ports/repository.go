package ports

import (
	"context"
	"errors"

	"github.com/Apurer/product-catalog-gateway/internal/domains/products/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository persists products. Implementations assign identifiers on Create and ignore any ID
// already present on the input.
type Repository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	// List returns every product in insertion order.
	List(ctx context.Context) ([]*domain.Product, error)
}
