package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/Apurer/product-catalog-gateway/internal/graph"
)

// GraphHandler serves the query-graph endpoint.
type GraphHandler struct {
	executor *graph.Executor
}

func NewGraphHandler(executor *graph.Executor) *GraphHandler {
	return &GraphHandler{executor: executor}
}

// Post /graphql
func (h *GraphHandler) Post(c *gin.Context) {
	var params graph.Params
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		respondGraphError(c, "request body must be a JSON object with a query: "+err.Error())
		return
	}
	h.execute(c, params)
}

// Get /graphql?query=...&operationName=...&variables=...
// Only queries are accepted over GET.
func (h *GraphHandler) Get(c *gin.Context) {
	params := graph.Params{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
		ReadOnly:      true,
	}
	if raw := c.Query("variables"); raw != "" {
		dec := json.NewDecoder(bytes.NewBufferString(raw))
		dec.UseNumber()
		if err := dec.Decode(&params.Variables); err != nil {
			respondGraphError(c, "variables must be a JSON object: "+err.Error())
			return
		}
	}
	h.execute(c, params)
}

func (h *GraphHandler) execute(c *gin.Context, params graph.Params) {
	resp, status := h.executor.Execute(c.Request.Context(), params)
	c.JSON(status, resp)
}

func respondGraphError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, graph.Response{Errors: gqlerror.List{{
		Message:    message,
		Extensions: map[string]interface{}{"code": graph.CodeBadUserInput},
	}}})
}
