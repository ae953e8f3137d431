package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/mediascout/models"
	"github.com/use-agent/mediascout/scraper"
)

// LinkStatus returns a handler for POST /api/v1/scraper/link-status.
// Probe outcomes, including unreachable hosts, are always 200.
func LinkStatus(sc Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TargetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.LinkStatusResponse{Error: invalidInput(err)})
			return
		}
		if err := scraper.ValidateURL(req.URL); err != nil {
			se := asScrapeError(err)
			c.JSON(http.StatusBadRequest, models.LinkStatusResponse{Error: se.ToDetail()})
			return
		}

		health := sc.CheckLinkStatus(c.Request.Context(), req.URL)
		c.JSON(http.StatusOK, models.LinkStatusResponse{Success: true, Data: &health})
	}
}

// CheckLinks returns a handler for POST /api/v1/scraper/check-links.
// ?all=true ignores the staleness window.
func CheckLinks(lc LinkChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, _ := strconv.ParseBool(c.DefaultQuery("all", "false"))

		res, err := lc.CheckDue(c.Request.Context(), all)
		if err != nil {
			se := asScrapeError(err)
			c.JSON(mapErrorToStatus(se), models.CheckLinksResponse{
				Results: []models.SourceCheck{},
				Error:   se.ToDetail(),
			})
			return
		}
		c.JSON(http.StatusOK, models.CheckLinksResponse{
			Success:   true,
			RunID:     res.RunID,
			Processed: res.Processed,
			Results:   res.Results,
		})
	}
}
