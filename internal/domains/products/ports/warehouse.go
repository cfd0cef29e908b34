package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/product-catalog-gateway/internal/domains/products/domain"
)

// ErrSupplementUnavailable signals the warehouse payload could not be obtained. It is an expected
// outcome; callers degrade the supplemented field instead of failing the request.
var ErrSupplementUnavailable = errors.New("warehouse supplement unavailable")

// SupplementUnavailableError carries the product and the underlying cause.
type SupplementUnavailableError struct {
	ProductID int64
	Cause     error
}

func (e *SupplementUnavailableError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("warehouse supplement unavailable for product %d", e.ProductID)
	}
	return fmt.Sprintf("warehouse supplement unavailable for product %d: %v", e.ProductID, e.Cause)
}

func (e *SupplementUnavailableError) Is(target error) bool {
	return target == ErrSupplementUnavailable
}

func (e *SupplementUnavailableError) Unwrap() error {
	return e.Cause
}

// WarehouseInfoFetcher loads the warehouse supplement for a product.
type WarehouseInfoFetcher interface {
	FetchInfo(ctx context.Context, productID int64) (*domain.WarehouseInfo, error)
}
