package mapper

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/product-catalog-gateway/internal/domains/products/domain"
)

var (
	errMissingName     = errors.New("name is required")
	errMissingPrice    = errors.New("price is required")
	errMissingQuantity = errors.New("quantityInStock is required")
)

// MutationProduct captures inbound create/update payloads while preserving field presence.
// Price is accepted as a JSON number or a quoted decimal string.
type MutationProduct struct {
	ID              *int64           `json:"id,omitempty"`
	Name            *string          `json:"name"`
	Price           *decimal.Decimal `json:"price"`
	QuantityInStock *int64           `json:"quantityInStock"`
}

// Product is the HTTP representation of the catalog aggregate.
type Product struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Price           json.Number `json:"price"`
	QuantityInStock int64       `json:"quantityInStock"`
}

// ToDomainProduct maps a mutation payload to an unvalidated domain product; the store enforces invariants.
func ToDomainProduct(id int64, payload MutationProduct) (*domain.Product, error) {
	if payload.Name == nil {
		return nil, errMissingName
	}
	if payload.Price == nil {
		return nil, errMissingPrice
	}
	if payload.QuantityInStock == nil {
		return nil, errMissingQuantity
	}
	return &domain.Product{
		ID:              id,
		Name:            *payload.Name,
		Price:           *payload.Price,
		QuantityInStock: *payload.QuantityInStock,
	}, nil
}

// FromDomain renders the full product shape.
func FromDomain(p *domain.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{
		ID:              p.ID,
		Name:            p.Name,
		Price:           PriceNumber(p.Price),
		QuantityInStock: p.QuantityInStock,
	}
}

// FromDomainList renders a list preserving order.
func FromDomainList(products []*domain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromDomain(p))
	}
	return out
}

// PriceNumber renders a decimal as a bare JSON number without losing precision.
func PriceNumber(price decimal.Decimal) json.Number {
	return json.Number(price.String())
}
