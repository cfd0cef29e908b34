package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is the catalog aggregate. ID is owned by the store and never changes after creation.
type Product struct {
	ID              int64
	Name            string
	Price           decimal.Decimal
	QuantityInStock int64
}

var (
	ErrEmptyName        = errors.New("product name is required")
	ErrNegativePrice    = errors.New("price must be greater or equal to zero")
	ErrNegativeQuantity = errors.New("quantity in stock must be greater or equal to zero")
)

// NewProduct validates the invariants and builds a new Product aggregate.
func NewProduct(id int64, name string, price decimal.Decimal, quantity int64) (*Product, error) {
	p := &Product{ID: id}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.Reprice(price); err != nil {
		return nil, err
	}
	if err := p.Restock(quantity); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename mutates the product name ensuring the invariant.
func (p *Product) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// Reprice sets a non-negative price.
func (p *Product) Reprice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	p.Price = price
	return nil
}

// Restock sets the quantity held in stock.
func (p *Product) Restock(quantity int64) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	p.QuantityInStock = quantity
	return nil
}

// Validate re-checks every invariant; used by adapters that hydrate products from the outside.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.QuantityInStock < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// Clone returns a detached copy so callers never alias stored records.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
