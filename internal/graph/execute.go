package graph

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vektah/gqlparser/v2/gqlerror"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Response is the GraphQL-over-HTTP response body. Data is nil both when execution never started
// and when a failed non-null root field nulled it; only the latter renders "data": null.
type Response struct {
	Data   *orderedmap.OrderedMap[string, any]
	Errors gqlerror.List

	dataNulled bool
}

// DataNulled reports whether a failed non-null root field nulled the data object.
func (r Response) DataNulled() bool {
	return r.dataNulled
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.dataNulled {
		return json.Marshal(struct {
			Data   any           `json:"data"`
			Errors gqlerror.List `json:"errors,omitempty"`
		}{Errors: r.Errors})
	}
	return json.Marshal(struct {
		Data   *orderedmap.OrderedMap[string, any] `json:"data,omitempty"`
		Errors gqlerror.List                       `json:"errors,omitempty"`
	}{Data: r.Data, Errors: r.Errors})
}

// Executor parses a document and resolves its root fields one after another.
type Executor struct {
	parser   *Parser
	resolver *Resolver
	logger   *slog.Logger
}

func NewExecutor(parser *Parser, resolver *Resolver, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{parser: parser, resolver: resolver, logger: logger}
}

// Execute returns the response body with the HTTP status to send. Invalid documents and documents
// whose every executed root field was rejected as a bad request yield 400; anything else is 200,
// possibly with partial data. Root fields run in document order; a failed non-null root field
// nulls the data object and stops the remaining fields.
func (e *Executor) Execute(ctx context.Context, params Params) (*Response, int) {
	doc, errs := e.parser.Parse(params)
	if len(errs) > 0 {
		return &Response{Errors: errs}, http.StatusBadRequest
	}

	resp := &Response{Data: orderedmap.New[string, any]()}
	executed, rejected := 0, 0
	for _, req := range doc.Requests {
		executed++
		result, err := e.resolver.Resolve(ctx, req)
		if err == nil {
			resp.Data.Set(req.Key(), result.Data)
			resp.Errors = append(resp.Errors, result.Errors...)
			continue
		}

		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			rejected++
			resp.Errors = append(resp.Errors, fieldError(CodeBadUserInput, reqErr.Error(), pathOf(req.Key())))
		} else {
			e.logger.ErrorContext(ctx, "graph operation failed",
				slog.String("operation", string(req.Operation)), slog.String("error", err.Error()))
			resp.Errors = append(resp.Errors, fieldError(CodeInternal, "internal error", pathOf(req.Key())))
		}
		if req.Operation.NonNull() {
			resp.Data = nil
			resp.dataNulled = true
			break
		}
		resp.Data.Set(req.Key(), nil)
	}

	if executed > 0 && rejected == executed {
		return &Response{Errors: resp.Errors}, http.StatusBadRequest
	}
	return resp, http.StatusOK
}
