package posterparlorserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
)

const idempotencyHeader = "Idempotency-Key"

// OrderAPI wires the customer order and checkout endpoints to the orders context.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI; placements go through workflows when it is set.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /api/order
// Place an order for the authenticated customer
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var payload orderhttpmapper.CreateOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(idempotencyHeader))
	input := orderhttpmapper.ToPlaceOrderInput(principal.UserID, key, payload)
	order, err := api.placeOrder(c.Request.Context(), input)
	recordOrderOperation("create", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromProjection(order))
}

func (api *OrderAPI) placeOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}

// Get /api/order
// Page through the caller's orders, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var query orderhttpmapper.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	page, err := api.service.ListCustomerOrders(c.Request.Context(), ordertypes.CustomerOrdersInput{
		UserID: principal.UserID,
		Page:   query.Page,
		Limit:  query.Limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromPage(page))
}

// Get /api/order/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), c.Param("id"), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(order))
}

// Get /api/order/payment/key
// Public gateway key for the checkout widget
func (api *OrderAPI) PaymentKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"keyId": api.service.PaymentKeyID()})
}

// Post /api/order/payment/initiate
// Create a gateway order for the priced cart
func (api *OrderAPI) InitiatePayment(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var payload orderhttpmapper.InitiatePayment
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	intent, err := api.service.InitiatePayment(c.Request.Context(), orderhttpmapper.ToInitiatePaymentInput(principal.UserID, payload))
	recordOrderOperation("initiate_payment", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromPaymentIntent(intent))
}

// Post /api/order/payment/verify
// Verify the gateway signature and place the settled order
func (api *OrderAPI) VerifyPayment(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var payload orderhttpmapper.VerifyPayment
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	ctx := c.Request.Context()
	input, err := api.service.ReconcilePayment(ctx, orderhttpmapper.ToVerifyPaymentInput(principal.UserID, payload))
	recordOrderOperation("verify_payment", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	order, err := api.placeOrder(ctx, *input)
	recordOrderOperation("create", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromProjection(order))
}
