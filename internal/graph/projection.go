package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Apurer/product-catalog-gateway/internal/domains/products/domain"
)

// Projection is a projected product with keys in selection order.
type Projection = *orderedmap.OrderedMap[string, any]

const (
	fieldID              = "id"
	fieldName            = "name"
	fieldPrice           = "price"
	fieldQuantityInStock = "quantityInStock"
	fieldWarehouseInfo   = "warehouseInfo"
	fieldTypename        = "__typename"

	productTypename = "Product"
)

var productFields = map[string]struct{}{
	fieldID:              {},
	fieldName:            {},
	fieldPrice:           {},
	fieldQuantityInStock: {},
	fieldWarehouseInfo:   {},
	fieldTypename:        {},
}

func checkSelection(req Request) error {
	if req.Operation == OpDelete {
		if len(req.Selection) > 0 {
			return requestErrorf(req.Key(), "boolean result takes no selection")
		}
		return nil
	}
	if len(req.Selection) == 0 {
		return requestErrorf(req.Key(), "a field selection is required")
	}
	for _, field := range req.Selection {
		if _, ok := productFields[field.Name]; !ok {
			return requestErrorf(field.Name, "unknown field on %s", productTypename)
		}
	}
	return nil
}

// project materialises the selected fields of each product. Warehouse lookups happen only when
// the selection asks for the supplemented field; a failed lookup nulls that field and is reported
// as a field error, leaving the rest of the object intact.
func (r *Resolver) project(ctx context.Context, req Request, products []*domain.Product, list bool) ([]Projection, gqlerror.List) {
	items := make([]Projection, len(products))
	var supplements []supplementResult
	if req.Selects(fieldWarehouseInfo) {
		supplements = r.supplement(ctx, products)
	}

	var fieldErrs gqlerror.List
	for i, product := range products {
		item := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](len(req.Selection)))
		for _, field := range req.Selection {
			switch field.Name {
			case fieldID:
				item.Set(field.Key(), product.ID)
			case fieldName:
				item.Set(field.Key(), product.Name)
			case fieldPrice:
				item.Set(field.Key(), json.Number(product.Price.String()))
			case fieldQuantityInStock:
				item.Set(field.Key(), product.QuantityInStock)
			case fieldTypename:
				item.Set(field.Key(), productTypename)
			case fieldWarehouseInfo:
				s := supplements[i]
				if s.err != nil {
					item.Set(field.Key(), nil)
					path := pathOf(req.Key())
					if list {
						path = append(path, ast.PathIndex(i))
					}
					path = append(path, ast.PathName(field.Key()))
					fieldErrs = append(fieldErrs, fieldError(CodeUpstreamUnavailable,
						fmt.Sprintf("warehouse info unavailable for product %d", product.ID), path))
					continue
				}
				item.Set(field.Key(), s.info.String())
			}
		}
		items[i] = item
	}
	return items, fieldErrs
}

type supplementResult struct {
	info *domain.WarehouseInfo
	err  error
}

// supplement fetches warehouse info for every product concurrently. Each goroutine writes only
// its own slot; failures are recorded rather than returned so one slow or broken lookup never
// cancels the others.
func (r *Resolver) supplement(ctx context.Context, products []*domain.Product) []supplementResult {
	out := make([]supplementResult, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, product := range products {
		i, id := i, product.ID
		g.Go(func() error {
			var (
				info *domain.WarehouseInfo
				err  error
			)
			if r.warehouse != nil {
				info, err = r.warehouse.FetchInfo(gctx, id)
			}
			if err == nil && info == nil {
				err = fmt.Errorf("empty warehouse payload for product %d", id)
			}
			if err != nil {
				r.logger.WarnContext(gctx, "warehouse supplement unavailable",
					slog.Int64("product.id", id), slog.String("error", err.Error()))
			}
			out[i] = supplementResult{info: info, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func pathOf(key string) ast.Path {
	return ast.Path{ast.PathName(key)}
}
