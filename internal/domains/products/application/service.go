package application

import (
	"context"
	"fmt"

	"github.com/Apurer/product-catalog-gateway/internal/domains/products/domain"
	"github.com/Apurer/product-catalog-gateway/internal/domains/products/ports"
)

// Service is the authoritative product store: it enforces the aggregate invariants and delegates
// atomic persistence to the repository.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new product. The store always assigns the identifier; a caller-supplied ID is discarded.
func (s *Service) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: product is nil", ErrInvalidInput)
	}
	candidate := product.Clone()
	candidate.ID = 0
	if err := candidate.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, candidate)
}

// Update replaces the mutable fields of an existing product.
func (s *Service) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: product is nil", ErrInvalidInput)
	}
	if product.ID <= 0 {
		return nil, fmt.Errorf("%w: product id must be positive", ErrInvalidInput)
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Update(ctx, product.Clone())
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

var _ ports.Service = (*Service)(nil)
