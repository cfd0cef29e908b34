//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/product-catalog-gateway/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type productPayload struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Price           json.Number `json:"price"`
	QuantityInStock int64       `json:"quantityInStock"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestCatalogPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	productMatcher := matchers.Map{
		"id":              matchers.Like(pacttest.ExistingProductID),
		"name":            matchers.Like(pacttest.ExampleProductName()),
		"price":           matchers.Like(pacttest.ExampleProductPrice()),
		"quantityInStock": matchers.Like(pacttest.ExampleProductQuantity()),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateProductsBaseline).
		UponReceiving("a request to create a product").
		WithRequest("POST", "/products", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleProductPayload())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.Header("Location", matchers.Regex(fmt.Sprintf("/products/%d", pacttest.ExistingProductID), "\\/products\\/\\d+"))
			b.JSONBody(productMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a request to fetch an existing product").
		WithRequest("GET", fmt.Sprintf("/products/%d", pacttest.ExistingProductID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductsBaseline).
		UponReceiving("a request for a missing product").
		WithRequest("GET", fmt.Sprintf("/products/%d", pacttest.MissingProductID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a query for product names and prices").
		WithRequest("POST", "/graphql", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"query": "{ products { id name price } }"})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"data": matchers.StructMatcher{
					"products": matchers.EachLike(matchers.Map{
						"id":    matchers.Like(pacttest.ExistingProductID),
						"name":  matchers.Like(pacttest.ExampleProductName()),
						"price": matchers.Like(pacttest.ExampleProductPrice()),
					}, 1),
				},
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newCatalogClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.CreateProduct(ctx, pacttest.ExampleProductPayload())
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if created == nil || created.ID == 0 {
			return fmt.Errorf("expected created product ID to be set")
		}

		fetched, err := client.GetProduct(ctx, pacttest.ExistingProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if fetched == nil || fetched.ID != pacttest.ExistingProductID {
			return fmt.Errorf("expected product id %d, got %+v", pacttest.ExistingProductID, fetched)
		}

		if _, err := client.GetProduct(ctx, pacttest.MissingProductID); err == nil {
			return fmt.Errorf("expected 404 for product %d", pacttest.MissingProductID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		listed, err := client.QueryProducts(ctx)
		if err != nil {
			return fmt.Errorf("query products: %w", err)
		}
		if len(listed) == 0 {
			return fmt.Errorf("expected at least one product from the graph endpoint")
		}
		return nil
	})
	require.NoError(t, err)
}

type catalogClient struct {
	baseURL    string
	httpClient *http.Client
}

func newCatalogClient(config pactconsumer.MockServerConfig) *catalogClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &catalogClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *catalogClient) CreateProduct(ctx context.Context, payload map[string]any) (*productPayload, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var product productPayload
	if err := c.do(req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *catalogClient) GetProduct(ctx context.Context, id int64) (*productPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	var product productPayload
	if err := c.do(req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *catalogClient) QueryProducts(ctx context.Context) ([]productPayload, error) {
	body, err := json.Marshal(map[string]any{"query": "{ products { id name price } }"})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var envelope struct {
		Data struct {
			Products []productPayload `json:"products"`
		} `json:"data"`
	}
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Products, nil
}

func (c *catalogClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	return dec.Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	if err := json.NewDecoder(res.Body).Decode(&problem); err != nil {
		return apiError{status: res.StatusCode, title: http.StatusText(res.StatusCode)}
	}
	return apiError{status: res.StatusCode, title: problem.Title, detail: problem.Detail}
}
