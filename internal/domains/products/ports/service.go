package ports

import (
	"context"

	"github.com/Apurer/product-catalog-gateway/internal/domains/products/domain"
)

// Service exposes the product store use cases to the REST and graph adapters.
type Service interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Product, error)
}
