package posterparlorserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	usertypes "github.com/Apurer/poster-parlor-api/internal/domains/users/application/types"
	userports "github.com/Apurer/poster-parlor-api/internal/domains/users/ports"
)

const (
	principalKey     = "principal"
	accessCookieName = "access_token"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_parlor_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poster_parlor_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_parlor_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "status"},
	)
)

// PrometheusMiddleware records request counts and latencies by route template.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

func recordOrderOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	orderOperations.WithLabelValues(operation, status).Inc()
}

var (
	errMissingToken = errors.New("authentication required")
	errAdminOnly    = errors.New("admin role required")
)

// Authenticator resolves bearer or cookie access tokens through the users service.
type Authenticator struct {
	users userports.Service
}

func NewAuthenticator(users userports.Service) *Authenticator {
	return &Authenticator{users: users}
}

// RequireAuth rejects requests without a valid access token.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, errMissingToken)
			return
		}
		principal, err := a.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err)
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFrom(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, errMissingToken)
			return
		}
		if !principal.IsAdmin() {
			abortWithError(c, http.StatusForbidden, errAdminOnly)
			return
		}
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	if cookie, err := c.Cookie(accessCookieName); err == nil {
		return cookie
	}
	return ""
}

func principalFrom(c *gin.Context) (*usertypes.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*usertypes.Principal)
	return principal, ok && principal != nil
}

// mustPrincipal is for handlers mounted behind RequireAuth.
func mustPrincipal(c *gin.Context) (*usertypes.Principal, bool) {
	principal, ok := principalFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, errMissingToken)
	}
	return principal, ok
}
