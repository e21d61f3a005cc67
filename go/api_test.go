package posterparlorserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	catalogmemory "github.com/Apurer/poster-parlor-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/poster-parlor-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/poster-parlor-api/internal/domains/catalog/domain"
	ordercatalog "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/catalog"
	ordercustomers "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/customers"
	ordermemory "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/poster-parlor-api/internal/domains/orders/application"
	orderports "github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
	reviewcatalog "github.com/Apurer/poster-parlor-api/internal/domains/reviews/adapters/catalog"
	reviewmemory "github.com/Apurer/poster-parlor-api/internal/domains/reviews/adapters/memory"
	reviewsapp "github.com/Apurer/poster-parlor-api/internal/domains/reviews/application"
	usermemory "github.com/Apurer/poster-parlor-api/internal/domains/users/adapters/memory"
	"github.com/Apurer/poster-parlor-api/internal/domains/users/adapters/tokens"
	usersapp "github.com/Apurer/poster-parlor-api/internal/domains/users/application"
	userdomain "github.com/Apurer/poster-parlor-api/internal/domains/users/domain"
	platformpostgres "github.com/Apurer/poster-parlor-api/internal/platform/postgres"
)

const (
	posterID    = "0f8fad5b-d9cb-469f-a165-70867728950e"
	adminEmail  = "admin@posterparlor.test"
	adminSecret = "admin-password"
)

func init() {
	gin.SetMode(gin.TestMode)
	userdomain.PasswordCost = bcrypt.MinCost
}

type stubGateway struct{}

func (stubGateway) CreateOrder(_ context.Context, req orderports.GatewayOrderRequest) (*orderports.GatewayOrder, error) {
	return &orderports.GatewayOrder{ID: "order_Stub", Amount: req.AmountMinor, Currency: req.Currency, Receipt: req.Receipt}, nil
}

func (stubGateway) FetchOrder(_ context.Context, id string) (*orderports.GatewayOrder, error) {
	return &orderports.GatewayOrder{ID: id, Currency: "INR"}, nil
}

func (stubGateway) KeyID() string { return "rzp_test_stub" }

type apiFixture struct {
	router *gin.Engine
	items  *catalogmemory.Repository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()

	items := catalogmemory.NewRepository()
	item, err := catalogdomain.NewItem(posterID, "Starry Night", 100, 5, []catalogdomain.Image{{URL: "https://cdn.example/starry.jpg", PublicID: "starry"}})
	require.NoError(t, err)
	_, err = items.Save(ctx, item)
	require.NoError(t, err)

	userRepo := usermemory.NewRepository()
	issuer, err := tokens.NewJWTIssuer(tokens.Config{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})
	require.NoError(t, err)
	users := usersapp.NewService(userRepo, usermemory.NewSessionStore(), issuer)
	_, err = users.EnsureAdmin(ctx, adminEmail, "Admin", adminSecret)
	require.NoError(t, err)

	catalogService := catalogapp.NewService(items)
	orderCatalog := ordercatalog.New(items)
	orderRepo := ordermemory.NewRepository()
	orders := ordersapp.NewService(orderRepo, orderCatalog, ordercustomers.New(userRepo),
		ordersapp.WithPaymentGateway(stubGateway{}),
		ordersapp.WithPaymentReconciler(ordersapp.NewPaymentReconciler("gateway-secret")),
		ordersapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()),
	)
	admin := ordersapp.NewAdminService(orderRepo, orderCatalog)
	reviews := reviewsapp.NewService(reviewmemory.NewRepository(), reviewcatalog.New(items))

	handlers := ApiHandleFunctions{
		AuthAPI:      NewAuthAPI(users, CookieOptions{}),
		InventoryAPI: NewInventoryAPI(catalogService),
		OrderAPI:     NewOrderAPI(orders, nil),
		ReviewAPI:    NewReviewAPI(reviews),
		AdminAPI:     NewAdminAPI(admin),
		HealthAPI:    NewHealthAPI(platformpostgres.NewHealthChecker(nil)),
	}
	return &apiFixture{router: NewRouter(handlers, NewAuthenticator(users)), items: items}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) register(t *testing.T, email string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "name": "Asha", "password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func (f *apiFixture) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var problem struct {
		Status     int            `json:"status"`
		Extensions map[string]any `json:"extensions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	code, _ := problem.Extensions["code"].(string)
	return problem.Status, code
}

func orderPayload(quantity int, price, amount float64) map[string]any {
	return map[string]any{
		"customer": map[string]any{"phone": "9876543210"},
		"items":    []map[string]any{{"posterId": posterID, "quantity": quantity, "price": price}},
		"shippingAddress": map[string]any{
			"addressLine1": "12 Residency Road", "city": "New Delhi", "state": "Delhi", "pincode": "110001",
		},
		"paymentDetails": map[string]any{"method": "COD", "amount": amount, "currency": "INR"},
	}
}

func stockOf(t *testing.T, f *apiFixture) int {
	t.Helper()
	item, err := f.items.GetByID(context.Background(), posterID)
	require.NoError(t, err)
	return item.Entity.Stock
}

func TestAuth_RegisterMeAndRefresh(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "Asha@Example.com", "name": "Asha", "password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var refreshCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == refreshCookieName {
			refreshCookie = cookie
		}
	}
	require.NotNil(t, refreshCookie)
	assert.True(t, refreshCookie.HttpOnly)

	var auth struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
	assert.Equal(t, "asha@example.com", auth.User.Email)
	assert.Equal(t, "USER", auth.User.Role)

	rec = f.do(t, http.MethodGet, "/api/auth/me", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "asha@example.com")

	rec = f.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	_, code := decodeProblem(t, rec)
	assert.Equal(t, "Unauthorized", code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(refreshCookie)
	refreshed := httptest.NewRecorder()
	f.router.ServeHTTP(refreshed, req)
	require.Equal(t, http.StatusOK, refreshed.Code, refreshed.Body.String())
	assert.Contains(t, refreshed.Body.String(), "accessToken")

	// The rotated-out refresh token no longer works.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(refreshCookie)
	replay := httptest.NewRecorder()
	f.router.ServeHTTP(replay, req)
	assert.Equal(t, http.StatusUnauthorized, replay.Code)
}

func TestAuth_LoginRejectsBadPassword(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": adminEmail, "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrder_PricesAndDecrementsStock(t *testing.T) {
	f := newAPIFixture(t)
	token := f.register(t, "asha@example.com")

	rec := f.do(t, http.MethodPost, "/api/order", token, orderPayload(2, 100, 286))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order struct {
		ID           string  `json:"id"`
		Status       string  `json:"status"`
		ShippingCost float64 `json:"shippingCost"`
		TaxAmount    float64 `json:"taxAmount"`
		TotalPrice   float64 `json:"totalPrice"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "PENDING", order.Status)
	assert.Equal(t, 50.0, order.ShippingCost)
	assert.Equal(t, 36.0, order.TaxAmount)
	assert.Equal(t, 286.0, order.TotalPrice)
	assert.Equal(t, 3, stockOf(t, f))

	rec = f.do(t, http.MethodGet, "/api/order/"+order.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	other := f.register(t, "ravi@example.com")
	rec = f.do(t, http.MethodGet, "/api/order/"+order.ID, other, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/order?page=1&limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Orders     []json.RawMessage `json:"orders"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Orders, 1)
}

func TestCreateOrder_ErrorTaxonomy(t *testing.T) {
	f := newAPIFixture(t)
	token := f.register(t, "asha@example.com")

	cases := map[string]struct {
		payload map[string]any
		status  int
		code    string
	}{
		"tampered price":     {orderPayload(1, 90, 232), http.StatusUnprocessableEntity, "PriceMismatch"},
		"too many units":     {orderPayload(6, 100, 1308), http.StatusConflict, "InsufficientStock"},
		"short payment":      {orderPayload(1, 100, 10), http.StatusUnprocessableEntity, "PaymentAmountMismatch"},
		"malformed posterId": {map[string]any{"items": []map[string]any{{"posterId": "nope", "quantity": 1, "price": 1}}}, http.StatusBadRequest, "InvalidInput"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/order", token, tc.payload)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			_, code := decodeProblem(t, rec)
			assert.Equal(t, tc.code, code)
		})
	}
	assert.Equal(t, 5, stockOf(t, f))
}

func TestCreateOrder_IdempotencyKeyReplaysOrder(t *testing.T) {
	f := newAPIFixture(t)
	token := f.register(t, "asha@example.com")

	first := f.do(t, http.MethodPost, "/api/order", token, orderPayload(1, 100, 168), idempotencyHeader, "checkout-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := f.do(t, http.MethodPost, "/api/order", token, orderPayload(1, 100, 168), idempotencyHeader, "checkout-1")
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())

	var a, b struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, 4, stockOf(t, f))

	conflict := f.do(t, http.MethodPost, "/api/order", token, orderPayload(2, 100, 286), idempotencyHeader, "checkout-1")
	require.Equal(t, http.StatusConflict, conflict.Code)
}

func TestVerifyPayment_RejectsForgedSignature(t *testing.T) {
	f := newAPIFixture(t)
	token := f.register(t, "asha@example.com")

	rec := f.do(t, http.MethodPost, "/api/order/payment/verify", token, map[string]any{
		"razorpay_order_id":   "order_Stub",
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  "deadbeef",
		"items":               []map[string]any{{"posterId": posterID, "quantity": 1, "price": 100}},
		"shippingAddress": map[string]any{
			"addressLine1": "12 Residency Road", "city": "New Delhi", "state": "Delhi", "pincode": "110001",
		},
		"totalPrice": 168,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	_, code := decodeProblem(t, rec)
	assert.Equal(t, "PaymentVerificationFailed", code)
	assert.Equal(t, 5, stockOf(t, f))
}

func TestPaymentKey(t *testing.T) {
	f := newAPIFixture(t)
	token := f.register(t, "asha@example.com")
	rec := f.do(t, http.MethodGet, "/api/order/payment/key", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"keyId":"rzp_test_stub"}`, rec.Body.String())
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	f := newAPIFixture(t)
	customer := f.register(t, "asha@example.com")

	rec := f.do(t, http.MethodGet, "/api/admin/orders", customer, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	placed := f.do(t, http.MethodPost, "/api/order", customer, orderPayload(2, 100, 286))
	require.Equal(t, http.StatusCreated, placed.Code, placed.Body.String())
	var order struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(placed.Body.Bytes(), &order))

	admin := f.login(t, adminEmail, adminSecret)
	rec = f.do(t, http.MethodGet, "/api/admin/orders", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/admin/orders/"+order.ID+"/cancel", admin, map[string]string{"reason": "customer request"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"CANCELLED"`)
	assert.Equal(t, 5, stockOf(t, f))

	rec = f.do(t, http.MethodPatch, "/api/admin/orders/"+order.ID+"/status", admin, map[string]string{"status": "SHIPPED"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventory_PublicReadsAdminWrites(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/inventory/"+posterID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Starry Night")

	rec = f.do(t, http.MethodGet, "/api/inventory?limit=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := map[string]any{
		"title": "The Great Wave", "price": 150, "stock": 2,
		"images": []map[string]any{{"url": "https://cdn.example/wave.jpg", "publicId": "wave"}},
	}
	rec = f.do(t, http.MethodPost, "/api/inventory", "", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := f.login(t, adminEmail, adminSecret)
	rec = f.do(t, http.MethodPost, "/api/inventory", admin, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/inventory", admin, body)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestReviews_CreateAndList(t *testing.T) {
	f := newAPIFixture(t)
	token := f.register(t, "asha@example.com")

	rec := f.do(t, http.MethodPost, "/api/review/"+posterID, token, map[string]any{"rating": 4, "comment": "Lovely print"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var review struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &review))

	rec = f.do(t, http.MethodPost, "/api/review/"+posterID, token, map[string]any{"rating": 5})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/review/"+posterID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Reviews []json.RawMessage `json:"reviews"`
		Stats   struct {
			AverageRating      float64          `json:"averageRating"`
			TotalReviews       int64            `json:"totalReviews"`
			RatingDistribution map[string]int64 `json:"ratingDistribution"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Reviews, 1)
	assert.Equal(t, 4.0, page.Stats.AverageRating)
	assert.Equal(t, int64(1), page.Stats.RatingDistribution["4"])

	other := f.register(t, "ravi@example.com")
	rec = f.do(t, http.MethodDelete, "/api/review/"+review.ID, other, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/review/"+review.ID, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

type stubDatabaseHealth struct{ health platformpostgres.Health }

func (s stubDatabaseHealth) Check(context.Context) platformpostgres.Health { return s.health }

func TestDatabaseHealth_MemoryStoresReportDegraded(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/api/db-health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body platformpostgres.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, platformpostgres.HealthDegraded, body.Status)
	assert.False(t, body.Metrics.Persistent)
	assert.False(t, body.Metrics.Connected)
	assert.NotEmpty(t, body.Errors)
}

func TestDatabaseHealth_UnhealthyIsServiceUnavailable(t *testing.T) {
	router := NewRouter(ApiHandleFunctions{
		HealthAPI: NewHealthAPI(stubDatabaseHealth{health: platformpostgres.Health{
			Status:  platformpostgres.HealthUnhealthy,
			Metrics: platformpostgres.HealthMetrics{Persistent: true},
			Errors:  []string{"connection refused"},
		}}),
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/db-health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestDatabaseHealth_HealthyStore(t *testing.T) {
	router := NewRouter(ApiHandleFunctions{
		HealthAPI: NewHealthAPI(stubDatabaseHealth{health: platformpostgres.Health{
			Status:  platformpostgres.HealthHealthy,
			Metrics: platformpostgres.HealthMetrics{Persistent: true, Connected: true, ServerVersion: "PostgreSQL 15.6", LatencyMS: 2},
			Errors:  []string{},
		}}),
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/db-health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"serverVersion":"PostgreSQL 15.6"`)
	assert.Contains(t, rec.Body.String(), `"persistent":true`)
}
