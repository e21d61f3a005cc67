package posterparlorserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reviewhttpmapper "github.com/Apurer/poster-parlor-api/internal/domains/reviews/adapters/http/mapper"
	reviewtypes "github.com/Apurer/poster-parlor-api/internal/domains/reviews/application/types"
	reviewports "github.com/Apurer/poster-parlor-api/internal/domains/reviews/ports"
)

// ReviewAPI implements poster reviews. The :id parameter is the poster ID on
// create and list and the review ID on update and delete.
type ReviewAPI struct {
	service reviewports.Service
}

func NewReviewAPI(service reviewports.Service) ReviewAPI {
	return ReviewAPI{service: service}
}

// Post /api/review/:id
func (api *ReviewAPI) CreateReview(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var payload reviewhttpmapper.CreateReview
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	review, err := api.service.CreateReview(c.Request.Context(), reviewhttpmapper.ToCreateInput(principal.UserID, c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reviewhttpmapper.FromProjection(review))
}

// Get /api/review/:id
// Public listing with rating stats
func (api *ReviewAPI) ListReviews(c *gin.Context) {
	var query reviewhttpmapper.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	page, err := api.service.ListForItem(c.Request.Context(), reviewhttpmapper.ToListInput(c.Param("id"), query))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewhttpmapper.FromPage(page))
}

// Put /api/review/:id
func (api *ReviewAPI) UpdateReview(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var payload reviewhttpmapper.UpdateReview
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := reviewhttpmapper.ToUpdateInput(c.Param("id"), actorOf(principal.UserID, principal.IsAdmin()), payload)
	review, err := api.service.UpdateReview(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewhttpmapper.FromProjection(review))
}

// Delete /api/review/:id
// Owner or admin only
func (api *ReviewAPI) DeleteReview(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	if err := api.service.DeleteReview(c.Request.Context(), c.Param("id"), actorOf(principal.UserID, principal.IsAdmin())); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func actorOf(userID string, admin bool) reviewtypes.Actor {
	return reviewtypes.Actor{UserID: userID, IsAdmin: admin}
}
