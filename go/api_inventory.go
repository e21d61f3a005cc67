package posterparlorserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/Apurer/poster-parlor-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/poster-parlor-api/internal/domains/catalog/ports"
)

// InventoryAPI exposes the poster catalog.
type InventoryAPI struct {
	service catalogports.Service
}

func NewInventoryAPI(service catalogports.Service) InventoryAPI {
	return InventoryAPI{service: service}
}

// Get /api/inventory
// List posters with filters, search and sorting
func (api *InventoryAPI) ListItems(c *gin.Context) {
	var query cataloghttpmapper.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	page, err := api.service.ListItems(c.Request.Context(), cataloghttpmapper.ToListInput(query))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromPage(page))
}

// Get /api/inventory/featured
func (api *InventoryAPI) FeaturedItems(c *gin.Context) {
	items, err := api.service.FeaturedItems(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromProjectionList(items))
}

// Get /api/inventory/search
// Quick search over title, description and tags
func (api *InventoryAPI) SearchItems(c *gin.Context) {
	items, err := api.service.SearchItems(c.Request.Context(), c.Query("q"), queryInt(c, "limit"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromProjectionList(items))
}

// Get /api/inventory/categories/list
func (api *InventoryAPI) FilterOptions(c *gin.Context) {
	facets, err := api.service.FilterOptions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromFacets(facets))
}

// Get /api/inventory/:id
func (api *InventoryAPI) GetItem(c *gin.Context) {
	item, err := api.service.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromProjection(item))
}

// Post /api/inventory
// Add a poster (admin)
func (api *InventoryAPI) AddItem(c *gin.Context) {
	var payload cataloghttpmapper.CreateItem
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := api.service.AddItem(c.Request.Context(), cataloghttpmapper.ToCreateInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cataloghttpmapper.FromProjection(item))
}

// Put /api/inventory/:id
// Partially update a poster (admin)
func (api *InventoryAPI) UpdateItem(c *gin.Context) {
	var payload cataloghttpmapper.UpdateItem
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := api.service.UpdateItem(c.Request.Context(), cataloghttpmapper.ToUpdateInput(c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromProjection(item))
}

// Delete /api/inventory/:id
// Hide a poster from the storefront (admin)
func (api *InventoryAPI) DeactivateItem(c *gin.Context) {
	if err := api.service.DeactivateItem(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item deactivated"})
}

// Delete /api/inventory/:id/hard
// Permanently remove a poster (admin)
func (api *InventoryAPI) DeleteItem(c *gin.Context) {
	if err := api.service.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// queryInt reads an optional integer query parameter; malformed values read as zero.
func queryInt(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
