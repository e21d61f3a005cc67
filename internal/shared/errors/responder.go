package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// CodeInternal tags problems produced for errors no rule recognised.
const CodeInternal = "Internal"

// Responder provides methods to send Problem Details responses.
type Responder struct {
	// BaseURI is prepended to problem type URIs if they are relative.
	BaseURI string
}

// NewResponder creates a new problem responder with optional base URI.
func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI}
}

// DefaultResponder uses relative URIs for problem types.
var DefaultResponder = NewResponder("")

// Respond sends a ProblemDetail response with proper content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError sends err if it already is a ProblemDetail. Anything else
// becomes a generic Internal problem so driver messages never leak.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, internalProblem())
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, problem ProblemDetail) {
	DefaultResponder.Respond(c, problem)
}

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Rule binds a sentinel error to its problem template and taxonomy code.
type Rule struct {
	Target  error
	Problem ProblemDetail
	Code    string
}

// Mapper matches errors wrapping Target. Server-side problems carry a
// generic detail instead of the error text.
func (rule Rule) Mapper() ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		if !errors.Is(err, rule.Target) {
			return ProblemDetail{}, false
		}
		detail := err.Error()
		if rule.Problem.Status >= http.StatusInternalServerError {
			detail = internalProblem().Detail
		}
		return rule.Problem.WithDetail(detail).WithCode(rule.Code), true
	}
}

// MapRules turns rules into mappers, preserving order.
func MapRules(rules ...Rule) []ErrorMapper {
	mappers := make([]ErrorMapper, 0, len(rules))
	for _, rule := range rules {
		mappers = append(mappers, rule.Mapper())
	}
	return mappers
}

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(baseURI),
		mappers:   mappers,
	}
}

// AddMapper adds an error mapper to the chain.
func (r *ChainedResponder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// Resolve returns the problem the first matching mapper produces.
func (r *ChainedResponder) Resolve(err error) ProblemDetail {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	return internalProblem()
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	r.Respond(c, r.Resolve(err))
}

func internalProblem() ProblemDetail {
	return ErrInternal.WithDetail("unexpected server error").WithCode(CodeInternal)
}
