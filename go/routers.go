package posterparlorserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// access is the authorization level a route requires.
type access int

const (
	public access = iota
	authenticated
	adminOnly
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// Access is the authorization level for this Route.
	Access access
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every bounded context.
type ApiHandleFunctions struct {
	AuthAPI      AuthAPI
	InventoryAPI InventoryAPI
	OrderAPI     OrderAPI
	ReviewAPI    ReviewAPI
	AdminAPI     AdminAPI
	HealthAPI    HealthAPI
}

// NewRouter returns a new router with metrics, health and API routes.
func NewRouter(handleFunctions ApiHandleFunctions, auth *Authenticator, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	return NewRouterWithGinEngine(router, handleFunctions, auth)
}

// NewRouterWithGinEngine adds the routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, auth *Authenticator) *gin.Engine {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		chain := make([]gin.HandlerFunc, 0, 3)
		switch route.Access {
		case authenticated:
			chain = append(chain, auth.RequireAuth())
		case adminOnly:
			chain = append(chain, auth.RequireAuth(), auth.RequireAdmin())
		}
		chain = append(chain, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, chain...)
	}
	return router
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"DatabaseHealth", http.MethodGet, "/api/db-health", public, h.HealthAPI.DatabaseHealth},

		{"Register", http.MethodPost, "/api/auth/register", public, h.AuthAPI.Register},
		{"Login", http.MethodPost, "/api/auth/login", public, h.AuthAPI.Login},
		{"Refresh", http.MethodPost, "/api/auth/refresh", public, h.AuthAPI.Refresh},
		{"Me", http.MethodGet, "/api/auth/me", authenticated, h.AuthAPI.Me},
		{"Logout", http.MethodPost, "/api/auth/logout", authenticated, h.AuthAPI.Logout},

		{"ListItems", http.MethodGet, "/api/inventory", public, h.InventoryAPI.ListItems},
		{"FeaturedItems", http.MethodGet, "/api/inventory/featured", public, h.InventoryAPI.FeaturedItems},
		{"SearchItems", http.MethodGet, "/api/inventory/search", public, h.InventoryAPI.SearchItems},
		{"FilterOptions", http.MethodGet, "/api/inventory/categories/list", public, h.InventoryAPI.FilterOptions},
		{"GetItem", http.MethodGet, "/api/inventory/:id", public, h.InventoryAPI.GetItem},
		{"AddItem", http.MethodPost, "/api/inventory", adminOnly, h.InventoryAPI.AddItem},
		{"UpdateItem", http.MethodPut, "/api/inventory/:id", adminOnly, h.InventoryAPI.UpdateItem},
		{"DeactivateItem", http.MethodDelete, "/api/inventory/:id", adminOnly, h.InventoryAPI.DeactivateItem},
		{"DeleteItem", http.MethodDelete, "/api/inventory/:id/hard", adminOnly, h.InventoryAPI.DeleteItem},

		{"PaymentKey", http.MethodGet, "/api/order/payment/key", authenticated, h.OrderAPI.PaymentKey},
		{"InitiatePayment", http.MethodPost, "/api/order/payment/initiate", authenticated, h.OrderAPI.InitiatePayment},
		{"VerifyPayment", http.MethodPost, "/api/order/payment/verify", authenticated, h.OrderAPI.VerifyPayment},
		{"CreateOrder", http.MethodPost, "/api/order", authenticated, h.OrderAPI.CreateOrder},
		{"ListOrders", http.MethodGet, "/api/order", authenticated, h.OrderAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/api/order/:id", authenticated, h.OrderAPI.GetOrder},

		{"CreateReview", http.MethodPost, "/api/review/:id", authenticated, h.ReviewAPI.CreateReview},
		{"ListReviews", http.MethodGet, "/api/review/:id", public, h.ReviewAPI.ListReviews},
		{"UpdateReview", http.MethodPut, "/api/review/:id", authenticated, h.ReviewAPI.UpdateReview},
		{"DeleteReview", http.MethodDelete, "/api/review/:id", authenticated, h.ReviewAPI.DeleteReview},

		{"AdminListOrders", http.MethodGet, "/api/admin/orders", adminOnly, h.AdminAPI.ListOrders},
		{"AdminRecentOrders", http.MethodGet, "/api/admin/orders/recent", adminOnly, h.AdminAPI.RecentOrders},
		{"AdminGetOrder", http.MethodGet, "/api/admin/orders/:id", adminOnly, h.AdminAPI.GetOrder},
		{"AdminUpdateStatus", http.MethodPatch, "/api/admin/orders/:id/status", adminOnly, h.AdminAPI.UpdateStatus},
		{"AdminCancelOrder", http.MethodPatch, "/api/admin/orders/:id/cancel", adminOnly, h.AdminAPI.CancelOrder},
		{"AdminDeleteOrder", http.MethodDelete, "/api/admin/orders/:id", adminOnly, h.AdminAPI.DeleteOrder},
	}
}
