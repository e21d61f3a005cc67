package posterparlorserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
)

// AdminAPI implements back-office order management. Every route requires the ADMIN role.
type AdminAPI struct {
	orders orderports.AdminService
}

func NewAdminAPI(orders orderports.AdminService) AdminAPI {
	return AdminAPI{orders: orders}
}

// Get /api/admin/orders
func (api *AdminAPI) ListOrders(c *gin.Context) {
	var query orderhttpmapper.AdminListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	page, err := api.orders.ListOrders(c.Request.Context(), orderhttpmapper.ToAdminListInput(query))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromPage(page))
}

// Get /api/admin/orders/recent
func (api *AdminAPI) RecentOrders(c *gin.Context) {
	orders, err := api.orders.RecentOrders(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjectionList(orders))
}

// Get /api/admin/orders/:id
func (api *AdminAPI) GetOrder(c *gin.Context) {
	order, err := api.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(order))
}

// Patch /api/admin/orders/:id/status
// Advance the fulfilment status
func (api *AdminAPI) UpdateStatus(c *gin.Context) {
	var payload orderhttpmapper.UpdateStatus
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.orders.UpdateStatus(c.Request.Context(), ordertypes.UpdateStatusInput{
		ID:             c.Param("id"),
		Status:         payload.Status,
		TrackingNumber: payload.TrackingNumber,
	})
	recordOrderOperation("update_status", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(order))
}

// Patch /api/admin/orders/:id/cancel
// Cancel and restore stock
func (api *AdminAPI) CancelOrder(c *gin.Context) {
	var payload orderhttpmapper.CancelOrder
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}
	}
	order, err := api.orders.CancelOrder(c.Request.Context(), ordertypes.CancelOrderInput{ID: c.Param("id"), Reason: payload.Reason})
	recordOrderOperation("cancel", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(order))
}

// Delete /api/admin/orders/:id
func (api *AdminAPI) DeleteOrder(c *gin.Context) {
	err := api.orders.DeleteOrder(c.Request.Context(), c.Param("id"))
	recordOrderOperation("delete", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
