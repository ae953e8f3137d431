package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/mediascout/cache"
	"github.com/use-agent/mediascout/models"
)

// Preview returns a handler for POST /api/v1/scraper/preview.
//
// Flow:
//  1. Parse & validate request.
//  2. Cache lookup when max_age is set.
//  3. Scraper.Preview (records fetch_ms).
//  4. Cache store, fill timing, return 200.
//
// cc may be nil.
func Preview(sc Scraper, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.PreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.PreviewResponse{
				Success: false,
				Error:   invalidInput(err),
			})
			return
		}

		useCache := cc != nil && req.MaxAge > 0
		key := cache.Key(req.URL)
		if useCache {
			if cached, hit := cc.Get(key, req.MaxAge); hit {
				c.JSON(http.StatusOK, models.PreviewResponse{
					Success:     true,
					Data:        cached,
					CacheStatus: "hit",
					Timing:      models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()},
				})
				return
			}
		}

		fetchStart := time.Now()
		preview, err := sc.Preview(c.Request.Context(), req.URL)
		fetchMs := time.Since(fetchStart).Milliseconds()
		timing := models.TimingInfo{
			TotalMs: time.Since(totalStart).Milliseconds(),
			FetchMs: fetchMs,
		}

		if err != nil {
			se := asScrapeError(err)
			c.JSON(mapErrorToStatus(se), models.PreviewResponse{
				Success: false,
				Timing:  timing,
				Error: &models.ErrorDetail{
					Code:    se.Code,
					Message: "scrape failed: " + se.Reason(),
				},
			})
			return
		}

		resp := models.PreviewResponse{
			Success: true,
			Data:    preview,
			Timing:  timing,
		}
		if useCache {
			cc.Set(key, preview)
			resp.CacheStatus = "miss"
		}
		c.JSON(http.StatusOK, resp)
	}
}
