//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/product-catalog-gateway/test/pact"

	warehouseclient "github.com/Apurer/product-catalog-gateway/internal/clients/http/warehouse"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

// The gateway forwards warehouse payloads verbatim, so the contract only pins the status codes and
// that a JSON object comes back.
func TestWarehouseServiceContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.WarehouseConsumerName,
		Provider: pacttest.WarehouseProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	pact.AddInteraction().
		Given(pacttest.StateWarehouseStocked).
		UponReceiving("a request for warehouse info of a stocked product").
		WithRequest("GET", fmt.Sprintf("/api/products/%d", pacttest.ExistingProductID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.Regex("application/json", "application\\/json.*"))
			b.JSONBody(matchers.Map{
				"productId": matchers.Like(pacttest.ExistingProductID),
				"location":  matchers.Like("Aisle 4, Bin 12"),
				"onHand":    matchers.Like(pacttest.ExampleProductQuantity()),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateWarehouseUnknown).
		UponReceiving("a request for warehouse info of an unknown product").
		WithRequest("GET", fmt.Sprintf("/api/products/%d", pacttest.MissingProductID)).
		WillRespondWith(http.StatusNotFound)

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		client, err := warehouseclient.NewClient(fmt.Sprintf("http://%s:%d", host, config.Port), nil)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		resp, err := client.FetchProductInfo(ctx, pacttest.ExistingProductID)
		if err != nil {
			return fmt.Errorf("fetch stocked product: %w", err)
		}
		if resp.ProductID != pacttest.ExistingProductID || len(resp.Body) == 0 {
			return fmt.Errorf("unexpected warehouse response %+v", resp)
		}

		_, err = client.FetchProductInfo(ctx, pacttest.MissingProductID)
		var statusErr *warehouseclient.StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
			return fmt.Errorf("expected 404 status error, got %v", err)
		}
		if !errors.Is(err, warehouseclient.ErrUnavailable) {
			return fmt.Errorf("expected status error to report unavailability, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}
