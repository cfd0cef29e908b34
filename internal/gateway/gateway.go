// Package gateway is the process boundary: it owns the product store, the warehouse fetcher, the
// REST handler and the query resolver, and routes each request to one of them.
package gateway

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	productports "github.com/Apurer/product-catalog-gateway/internal/domains/products/ports"
	"github.com/Apurer/product-catalog-gateway/internal/graph"
)

// Surface names which side of the gateway serves a route.
type Surface string

const (
	SurfaceREST  Surface = "rest"
	SurfaceGraph Surface = "graph"
	SurfaceOps   Surface = "ops"
)

// Route is one entry of the routing table.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	Surface     Surface
	HandlerFunc gin.HandlerFunc
}

// Gateway wires both query surfaces to one store and one warehouse fetcher.
type Gateway struct {
	products  productports.Service
	warehouse productports.WarehouseInfoFetcher
	rest      *RestHandler
	resolver  *graph.Resolver
	graph     *GraphHandler

	logger         *slog.Logger
	serviceName    string
	tracerProvider trace.TracerProvider
	gatherer       prometheus.Gatherer
	playground     bool
	concurrency    int

	routes []Route
	engine *gin.Engine
}

type Option func(*Gateway)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithServiceName names the server spans.
func WithServiceName(name string) Option {
	return func(g *Gateway) {
		g.serviceName = name
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(g *Gateway) {
		g.tracerProvider = tp
	}
}

// WithMetrics exposes the gatherer at GET /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(g *Gateway) {
		g.gatherer = gatherer
	}
}

// WithPlayground serves the GraphQL playground at GET /playground.
func WithPlayground(enabled bool) Option {
	return func(g *Gateway) {
		g.playground = enabled
	}
}

// WithSupplementConcurrency bounds concurrent warehouse lookups per graph request.
func WithSupplementConcurrency(n int) Option {
	return func(g *Gateway) {
		g.concurrency = n
	}
}

// New constructs the REST handler and the query resolver over the given collaborators and builds
// the routing table.
func New(products productports.Service, warehouse productports.WarehouseInfoFetcher, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		products:    products,
		warehouse:   warehouse,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		serviceName: "product-catalog-gateway",
		concurrency: graph.DefaultConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	parser, err := graph.NewParser()
	if err != nil {
		return nil, err
	}
	g.rest = NewRestHandler(products, warehouse)
	g.resolver = graph.NewResolver(products, warehouse,
		graph.WithLogger(g.logger),
		graph.WithConcurrency(g.concurrency),
	)
	g.graph = NewGraphHandler(graph.NewExecutor(parser, g.resolver, g.logger))
	g.routes = g.buildRoutes()
	g.engine = g.buildEngine()
	return g, nil
}

// Routes returns a copy of the routing table.
func (g *Gateway) Routes() []Route {
	out := make([]Route, len(g.routes))
	copy(out, g.routes)
	return out
}

// Handler is the root HTTP handler.
func (g *Gateway) Handler() http.Handler {
	return g.engine
}

func (g *Gateway) buildRoutes() []Route {
	routes := []Route{
		{"ListProducts", http.MethodGet, "/products", SurfaceREST, g.rest.ListProducts},
		{"CreateProduct", http.MethodPost, "/products", SurfaceREST, g.rest.CreateProduct},
		{"GetProduct", http.MethodGet, "/products/:id", SurfaceREST, g.rest.GetProduct},
		{"UpdateProduct", http.MethodPut, "/products/:id", SurfaceREST, g.rest.UpdateProduct},
		{"DeleteProduct", http.MethodDelete, "/products/:id", SurfaceREST, g.rest.DeleteProduct},
		{"GetWarehouseInfo", http.MethodGet, "/products/:id/warehouse", SurfaceREST, g.rest.GetWarehouseInfo},

		{"GraphQLPost", http.MethodPost, "/graphql", SurfaceGraph, g.graph.Post},
		{"GraphQLGet", http.MethodGet, "/graphql", SurfaceGraph, g.graph.Get},

		{"Health", http.MethodGet, "/healthz", SurfaceOps, health},
	}
	if g.gatherer != nil {
		routes = append(routes, Route{"Metrics", http.MethodGet, "/metrics", SurfaceOps,
			gin.WrapH(promhttp.HandlerFor(g.gatherer, promhttp.HandlerOpts{}))})
	}
	if g.playground {
		routes = append(routes, Route{"Playground", http.MethodGet, "/playground", SurfaceOps,
			gin.WrapF(playground.Handler("Product catalog", "/graphql"))})
	}
	return routes
}

func (g *Gateway) buildEngine() *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	var otelOpts []otelgin.Option
	if g.tracerProvider != nil {
		otelOpts = append(otelOpts, otelgin.WithTracerProvider(g.tracerProvider))
	}
	engine.Use(
		gin.Recovery(),
		requestID(),
		otelgin.Middleware(g.serviceName, otelOpts...),
		accessLog(g.logger),
	)
	for _, route := range g.routes {
		engine.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return engine
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
