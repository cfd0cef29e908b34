package warehouse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	warehouseclient "github.com/Apurer/product-catalog-gateway/internal/clients/http/warehouse"
	"github.com/Apurer/product-catalog-gateway/internal/domains/products/ports"
)

func TestFetcher_ReturnsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("aisle 4"))
	}))
	defer server.Close()

	client, err := warehouseclient.NewClient(server.URL, nil)
	require.NoError(t, err)

	info, err := NewFetcher(client, time.Second).FetchInfo(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, int64(9), info.ProductID)
	require.Equal(t, "aisle 4", info.String())
}

func TestFetcher_TimeoutIsSupplementUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := warehouseclient.NewClient(server.URL, nil)
	require.NoError(t, err)

	_, err = NewFetcher(client, 20*time.Millisecond).FetchInfo(context.Background(), 9)
	require.ErrorIs(t, err, ports.ErrSupplementUnavailable)
	var unavailable *ports.SupplementUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Equal(t, int64(9), unavailable.ProductID)
}

func TestFetcher_Unconfigured(t *testing.T) {
	_, err := NewFetcher(nil, 0).FetchInfo(context.Background(), 1)
	require.ErrorIs(t, err, ports.ErrSupplementUnavailable)
}
