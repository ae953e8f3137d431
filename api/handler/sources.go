package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/mediascout/models"
	"github.com/use-agent/mediascout/scraper"
)

// ListSources returns a handler for GET /api/v1/sources. ?limit=N caps the
// result; the default is all sources.
func ListSources(st SourceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))

		sources, err := st.List(c.Request.Context(), limit)
		if err != nil {
			se := asScrapeError(err)
			c.JSON(mapErrorToStatus(se), models.SourceListResponse{Sources: []models.Source{}, Error: se.ToDetail()})
			return
		}
		c.JSON(http.StatusOK, models.SourceListResponse{Success: true, Sources: sources})
	}
}

// CreateSource returns a handler for POST /api/v1/sources.
func CreateSource(st SourceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SourceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.SourceResponse{Error: invalidInput(err)})
			return
		}
		if err := scraper.ValidateURL(req.SourceURL); err != nil {
			c.JSON(http.StatusBadRequest, models.SourceResponse{Error: asScrapeError(err).ToDetail()})
			return
		}
		req.Defaults()

		src, err := st.Add(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SourceResponse{Success: true, Source: src})
	}
}

// GetSource returns a handler for GET /api/v1/sources/:id.
func GetSource(st SourceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		src, err := st.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			se := asScrapeError(err)
			c.JSON(mapErrorToStatus(se), models.SourceResponse{Error: se.ToDetail()})
			return
		}
		c.JSON(http.StatusOK, models.SourceResponse{Success: true, Source: src})
	}
}
