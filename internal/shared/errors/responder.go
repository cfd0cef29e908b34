package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper turns a domain error into a problem. It reports false for errors it does not own.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder renders errors as Problem Details. Mappers are consulted in registration order; an
// error no mapper claims is sent as is when it already is a ProblemDetail and as a bare 500
// otherwise, so internal causes never reach the client.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
}

func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{baseURI: strings.TrimSuffix(baseURI, "/"), mappers: mappers}
}

// AddMapper appends mapper to the chain.
func (r *Responder) AddMapper(mapper ErrorMapper) {
	if mapper != nil {
		r.mappers = append(r.mappers, mapper)
	}
}

// Respond writes problem with the problem+json content type. Relative types are resolved
// against the base URI and the request path fills an empty instance.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError resolves err to a problem and writes it. Unclaimed errors are attached to the gin
// context so the access log still records them.
func (r *Responder) RespondError(c *gin.Context, err error) {
	problem, known := r.problemFor(err)
	if !known {
		_ = c.Error(err)
	}
	r.Respond(c, problem)
}

// BadRequest rejects a malformed request.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

// NotFound reports that the resource identified by id does not exist.
func (r *Responder) NotFound(c *gin.Context, resourceType string, id any) {
	r.Respond(c, NewNotFoundProblem(resourceType, id))
}

func (r *Responder) problemFor(err error) (ProblemDetail, bool) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem, true
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem, true
	}
	return ErrInternal, false
}

// HTTPStatusFromError returns the status a problem carries, or 500.
func HTTPStatusFromError(err error) int {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem.Status
	}
	return http.StatusInternalServerError
}
