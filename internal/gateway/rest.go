package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Apurer/product-catalog-gateway/internal/domains/products/adapters/http/mapper"
	productsapp "github.com/Apurer/product-catalog-gateway/internal/domains/products/application"
	productports "github.com/Apurer/product-catalog-gateway/internal/domains/products/ports"
	apierrors "github.com/Apurer/product-catalog-gateway/internal/shared/errors"
)

const resourceProduct = "product"

// RestHandler maps fixed verbs and paths onto the product store. It always renders the full
// product shape.
type RestHandler struct {
	products  productports.Service
	warehouse productports.WarehouseInfoFetcher
	responder *apierrors.Responder
}

func NewRestHandler(products productports.Service, warehouse productports.WarehouseInfoFetcher) *RestHandler {
	return &RestHandler{
		products:  products,
		warehouse: warehouse,
		responder: apierrors.NewResponder("", productProblem),
	}
}

// productProblem maps product errors to Problem Details.
func productProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, productports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, productsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, productports.ErrSupplementUnavailable):
		return apierrors.ErrUpstreamUnavailable.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}

// Get /products
func (h *RestHandler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainList(products))
}

// Get /products/:id
func (h *RestHandler) GetProduct(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondProductError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomain(product))
}

// Post /products
// The store assigns the id; any id in the body is ignored.
func (h *RestHandler) CreateProduct(c *gin.Context) {
	var payload producthttpmapper.MutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	input, err := producthttpmapper.ToDomainProduct(0, payload)
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	created, err := h.products.Create(c.Request.Context(), input)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/products/%d", created.ID))
	c.JSON(http.StatusCreated, producthttpmapper.FromDomain(created))
}

// Put /products/:id
// A body id must match the path id; a body without one adopts it.
func (h *RestHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	var payload producthttpmapper.MutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	if payload.ID != nil && *payload.ID != id {
		h.responder.BadRequest(c, fmt.Sprintf("body id %d does not match path id %d", *payload.ID, id))
		return
	}
	input, err := producthttpmapper.ToDomainProduct(id, payload)
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	if _, err := h.products.Update(c.Request.Context(), input); err != nil {
		h.respondProductError(c, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete /products/:id
func (h *RestHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.respondProductError(c, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /products/:id/warehouse
// Passes the warehouse payload through untouched.
func (h *RestHandler) GetWarehouseInfo(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.products.GetByID(ctx, id); err != nil {
		h.respondProductError(c, id, err)
		return
	}
	if h.warehouse == nil {
		h.responder.Respond(c, apierrors.ErrUpstreamUnavailable.WithDetail("warehouse service is not configured"))
		return
	}
	info, err := h.warehouse.FetchInfo(ctx, id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, info.Payload)
}

func (h *RestHandler) respondProductError(c *gin.Context, id int64, err error) {
	if errors.Is(err, productports.ErrNotFound) {
		h.responder.NotFound(c, resourceProduct, id)
		return
	}
	h.responder.RespondError(c, err)
}

func (h *RestHandler) parseIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.responder.BadRequest(c, fmt.Sprintf("invalid product id %q", raw))
		return 0, false
	}
	return id, true
}
