package warehouse

import (
	"context"
	"errors"
	"time"

	warehouseclient "github.com/Apurer/product-catalog-gateway/internal/clients/http/warehouse"
	"github.com/Apurer/product-catalog-gateway/internal/domains/products/domain"
	"github.com/Apurer/product-catalog-gateway/internal/domains/products/ports"
)

// DefaultTimeout bounds a single warehouse lookup when no timeout is configured.
const DefaultTimeout = 2 * time.Second

var errNotConfigured = errors.New("warehouse base URL not configured")

// Fetcher implements the warehouse supplement port on top of the HTTP client.
type Fetcher struct {
	client  *warehouseclient.Client
	timeout time.Duration
}

// NewFetcher wires a warehouse HTTP client into the supplement port. A nil client yields a fetcher
// that reports every supplement as unavailable without doing I/O.
func NewFetcher(client *warehouseclient.Client, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{client: client, timeout: timeout}
}

// FetchInfo returns the warehouse payload or a *ports.SupplementUnavailableError.
func (f *Fetcher) FetchInfo(ctx context.Context, productID int64) (*domain.WarehouseInfo, error) {
	if f == nil || f.client == nil {
		return nil, &ports.SupplementUnavailableError{ProductID: productID, Cause: errNotConfigured}
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.FetchProductInfo(ctx, productID)
	if err != nil {
		return nil, &ports.SupplementUnavailableError{ProductID: productID, Cause: err}
	}
	return ToDomain(resp), nil
}

// ToDomain converts the client payload into the domain supplement.
func ToDomain(resp *warehouseclient.Response) *domain.WarehouseInfo {
	if resp == nil {
		return nil
	}
	return &domain.WarehouseInfo{
		ProductID:   resp.ProductID,
		Payload:     append([]byte(nil), resp.Body...),
		ContentType: resp.ContentType,
	}
}

var _ ports.WarehouseInfoFetcher = (*Fetcher)(nil)
