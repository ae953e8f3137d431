package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/mediascout/models"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "0.1.0"

// PagePool reports browser tab utilisation.
type PagePool interface {
	ActivePages() int
	MaxPages() int
}

// Health returns a handler for GET /api/v1/health.
//
// Degrades status when more than 80% of browser tabs are busy. pool may be
// nil when the browser engine is disabled.
func Health(engines []string, pool PagePool, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		if pool != nil {
			if limit := pool.MaxPages(); limit > 0 && pool.ActivePages() > int(float64(limit)*0.8) {
				status = "degraded"
			}
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: Version,
			Engines: engines,
		})
	}
}
