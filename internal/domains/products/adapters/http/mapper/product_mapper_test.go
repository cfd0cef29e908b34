package mapper

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/product-catalog-gateway/internal/domains/products/domain"
)

func TestMutationProduct_AcceptsNumericAndQuotedPrice(t *testing.T) {
	for _, body := range []string{
		`{"name":"Widget","price":9.99,"quantityInStock":10}`,
		`{"name":"Widget","price":"9.99","quantityInStock":10}`,
	} {
		var payload MutationProduct
		require.NoError(t, json.Unmarshal([]byte(body), &payload))
		p, err := ToDomainProduct(3, payload)
		require.NoError(t, err)
		require.Equal(t, int64(3), p.ID)
		require.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
	}
}

func TestToDomainProduct_RequiresFields(t *testing.T) {
	_, err := ToDomainProduct(0, MutationProduct{})
	require.ErrorIs(t, err, errMissingName)
}

func TestFromDomain_RendersPriceAsNumber(t *testing.T) {
	out, err := json.Marshal(FromDomain(&domain.Product{ID: 1, Name: "Widget", Price: decimal.RequireFromString("9.99"), QuantityInStock: 10}))
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1,"name":"Widget","price":9.99,"quantityInStock":10}`, string(out))
}
