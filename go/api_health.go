package posterparlorserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	platformpostgres "github.com/Apurer/poster-parlor-api/internal/platform/postgres"
)

// DatabaseHealth reports the state of the backing store.
type DatabaseHealth interface {
	Check(ctx context.Context) platformpostgres.Health
}

// HealthAPI exposes the database health report.
type HealthAPI struct {
	database DatabaseHealth
}

func NewHealthAPI(database DatabaseHealth) HealthAPI {
	return HealthAPI{database: database}
}

// Get /api/db-health
func (api *HealthAPI) DatabaseHealth(c *gin.Context) {
	database := api.database
	if database == nil {
		database = platformpostgres.NewHealthChecker(nil)
	}
	health := database.Check(c.Request.Context())
	status := http.StatusOK
	if health.Status == platformpostgres.HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}
