package posterparlorserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/poster-parlor-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/poster-parlor-api/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/poster-parlor-api/internal/domains/orders/application"
	reviewsapp "github.com/Apurer/poster-parlor-api/internal/domains/reviews/application"
	usersapp "github.com/Apurer/poster-parlor-api/internal/domains/users/application"
	apierrors "github.com/Apurer/poster-parlor-api/internal/shared/errors"
)

// problemRules maps application sentinels to problems tagged with their taxonomy code.
var problemRules = []apierrors.Rule{
	{Target: ordersapp.ErrInvalidInput, Problem: apierrors.ErrValidation, Code: "InvalidInput"},
	{Target: ordersapp.ErrNotFound, Problem: apierrors.ErrNotFound, Code: "NotFound"},
	{Target: ordersapp.ErrInsufficientStock, Problem: apierrors.ErrInsufficientStock, Code: "InsufficientStock"},
	{Target: ordersapp.ErrPriceMismatch, Problem: apierrors.ErrUnprocessable, Code: "PriceMismatch"},
	{Target: ordersapp.ErrPaymentAmountMismatch, Problem: apierrors.ErrUnprocessable, Code: "PaymentAmountMismatch"},
	{Target: ordersapp.ErrPaymentVerificationFailed, Problem: apierrors.ErrBadRequest, Code: "PaymentVerificationFailed"},
	{Target: ordersapp.ErrConflict, Problem: apierrors.ErrConflict, Code: "Conflict"},
	{Target: ordersapp.ErrInternal, Problem: apierrors.ErrInternal, Code: "Internal"},

	{Target: catalogapp.ErrInvalidInput, Problem: apierrors.ErrValidation, Code: "InvalidInput"},
	{Target: catalogapp.ErrConflict, Problem: apierrors.ErrConflict, Code: "Conflict"},
	{Target: catalogports.ErrNotFound, Problem: apierrors.ErrNotFound, Code: "NotFound"},

	{Target: reviewsapp.ErrInvalidInput, Problem: apierrors.ErrValidation, Code: "InvalidInput"},
	{Target: reviewsapp.ErrNotFound, Problem: apierrors.ErrNotFound, Code: "NotFound"},
	{Target: reviewsapp.ErrConflict, Problem: apierrors.ErrConflict, Code: "Conflict"},
	{Target: reviewsapp.ErrForbidden, Problem: apierrors.ErrForbidden, Code: "Forbidden"},

	{Target: usersapp.ErrInvalidInput, Problem: apierrors.ErrValidation, Code: "InvalidInput"},
	{Target: usersapp.ErrUnauthorized, Problem: apierrors.ErrUnauthorized, Code: "Unauthorized"},
	{Target: usersapp.ErrConflict, Problem: apierrors.ErrConflict, Code: "Conflict"},
	{Target: usersapp.ErrNotFound, Problem: apierrors.ErrNotFound, Code: "NotFound"},
}

var problems = apierrors.NewChainedResponder("", apierrors.MapRules(problemRules...)...)

// respondServiceError writes the RFC 7807 problem for a service error.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

// respondError maps transport failures (binding, headers, auth) by status.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		if fields, ok := apierrors.FieldErrors(err); ok {
			problem = apierrors.NewValidationProblem(fields).WithDetail("request failed validation").WithCode("InvalidInput")
			break
		}
		problem = apierrors.ErrValidation.WithDetail(err.Error()).WithCode("InvalidInput")
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error()).WithCode("NotFound")
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error()).WithCode("Unauthorized")
	case http.StatusForbidden:
		problem = apierrors.ErrForbidden.WithDetail(err.Error()).WithCode("Forbidden")
	default:
		problem = apierrors.ErrInternal.WithDetail("unexpected server error").WithCode(apierrors.CodeInternal)
	}
	apierrors.Respond(c, problem)
}

// abortWithError is respondError for middleware that must stop the chain.
func abortWithError(c *gin.Context, status int, err error) {
	respondError(c, status, err)
	c.Abort()
}
