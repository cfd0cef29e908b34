package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/Apurer/product-catalog-gateway/internal/domains/products/application"
	"github.com/Apurer/product-catalog-gateway/internal/domains/products/domain"
	"github.com/Apurer/product-catalog-gateway/internal/domains/products/ports"
)

// DefaultConcurrency bounds in-flight warehouse lookups for a single request.
const DefaultConcurrency = 8

// Result is the outcome of one resolved request. Data is nil, a bool, an ordered object or a
// slice of ordered objects depending on the operation; Errors holds non-fatal field errors.
type Result struct {
	Data   any
	Errors gqlerror.List
}

type resolveFunc func(ctx context.Context, req Request) (*Result, error)

// Resolver dispatches query-graph requests to the product store and stitches in warehouse data.
type Resolver struct {
	products    ports.Service
	warehouse   ports.WarehouseInfoFetcher
	logger      *slog.Logger
	concurrency int
	ops         map[Operation]resolveFunc
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithConcurrency caps concurrent warehouse lookups; values below one are ignored.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

func NewResolver(products ports.Service, warehouse ports.WarehouseInfoFetcher, opts ...Option) *Resolver {
	r := &Resolver{
		products:    products,
		warehouse:   warehouse,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.ops = map[Operation]resolveFunc{
		OpFetchAll:  r.fetchAll,
		OpFetchByID: r.fetchByID,
		OpCreate:    r.create,
		OpUpdate:    r.update,
		OpDelete:    r.delete,
	}
	return r
}

// Resolve runs a single request. A *RequestError is returned for malformed requests before any
// store call is made; other errors are store failures.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	resolve, ok := r.ops[req.Operation]
	if !ok {
		return nil, requestErrorf(string(req.Operation), "unknown operation")
	}
	if err := checkSelection(req); err != nil {
		return nil, err
	}
	return resolve(ctx, req)
}

func (r *Resolver) fetchAll(ctx context.Context, req Request) (*Result, error) {
	products, err := r.products.List(ctx)
	if err != nil {
		return nil, err
	}
	items, fieldErrs := r.project(ctx, req, products, true)
	return &Result{Data: items, Errors: fieldErrs}, nil
}

func (r *Resolver) fetchByID(ctx context.Context, req Request) (*Result, error) {
	id, err := idArg(req)
	if err != nil {
		return nil, err
	}
	product, err := r.products.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return &Result{}, nil
	}
	if err != nil {
		return nil, err
	}
	return r.single(ctx, req, product), nil
}

func (r *Resolver) create(ctx context.Context, req Request) (*Result, error) {
	input, err := productArg(req)
	if err != nil {
		return nil, err
	}
	created, err := r.products.Create(ctx, input)
	if err != nil {
		return nil, storeError(err)
	}
	return r.single(ctx, req, created), nil
}

func (r *Resolver) update(ctx context.Context, req Request) (*Result, error) {
	id, err := idArg(req)
	if err != nil {
		return nil, err
	}
	input, err := productArg(req)
	if err != nil {
		return nil, err
	}
	input.ID = id
	updated, err := r.products.Update(ctx, input)
	if errors.Is(err, ports.ErrNotFound) {
		return &Result{Errors: gqlerror.List{notFound(req, id)}}, nil
	}
	if err != nil {
		return nil, storeError(err)
	}
	return r.single(ctx, req, updated), nil
}

func (r *Resolver) delete(ctx context.Context, req Request) (*Result, error) {
	id, err := idArg(req)
	if err != nil {
		return nil, err
	}
	err = r.products.Delete(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return &Result{Data: false, Errors: gqlerror.List{notFound(req, id)}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Result{Data: true}, nil
}

func (r *Resolver) single(ctx context.Context, req Request, product *domain.Product) *Result {
	items, fieldErrs := r.project(ctx, req, []*domain.Product{product}, false)
	return &Result{Data: items[0], Errors: fieldErrs}
}

func notFound(req Request, id int64) *gqlerror.Error {
	return fieldError(CodeNotFound, fmt.Sprintf("product %d not found", id), pathOf(req.Key()))
}

func storeError(err error) error {
	if errors.Is(err, application.ErrInvalidInput) {
		return &RequestError{Subject: "product", Message: err.Error()}
	}
	return err
}

func idArg(req Request) (int64, error) {
	v, ok := req.Arg("id")
	if !ok {
		return 0, requestErrorf("id", "argument is required")
	}
	id, ok := v.AsInt()
	if !ok {
		return 0, requestErrorf("id", "expected an integer, got %s", v.Kind())
	}
	return id, nil
}

var productInputFields = map[string]struct{}{
	"id":              {},
	"name":            {},
	"price":           {},
	"quantityInStock": {},
}

// productArg maps the structured product argument onto a domain product. Any id inside the
// object is ignored: create assigns one and update takes the id argument.
func productArg(req Request) (*domain.Product, error) {
	v, ok := req.Arg("product")
	if !ok {
		return nil, requestErrorf("product", "argument is required")
	}
	if v.Kind() != KindObject {
		return nil, requestErrorf("product", "expected an object, got %s", v.Kind())
	}
	for _, name := range v.FieldNames() {
		if _, known := productInputFields[name]; !known {
			return nil, requestErrorf("product."+name, "unknown input field")
		}
	}

	nameValue, _ := v.Field("name")
	name, ok := nameValue.AsText()
	if !ok {
		return nil, requestErrorf("product.name", "expected text, got %s", nameValue.Kind())
	}
	priceValue, _ := v.Field("price")
	price, ok := priceValue.AsDecimal()
	if !ok {
		return nil, requestErrorf("product.price", "expected a number, got %s", priceValue.Kind())
	}
	quantityValue, _ := v.Field("quantityInStock")
	quantity, ok := quantityValue.AsInt()
	if !ok {
		return nil, requestErrorf("product.quantityInStock", "expected an integer, got %s", quantityValue.Kind())
	}
	return &domain.Product{Name: name, Price: price, QuantityInStock: quantity}, nil
}
