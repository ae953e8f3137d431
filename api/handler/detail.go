package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/mediascout/models"
)

// ChapterImages returns a handler for POST /api/v1/scraper/chapter-images.
func ChapterImages(sc Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TargetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ChapterImagesResponse{Images: []string{}, Error: invalidInput(err)})
			return
		}

		images, err := sc.ResolveChapterImages(c.Request.Context(), req.URL)
		if err != nil {
			se := asScrapeError(err)
			c.JSON(mapErrorToStatus(se), models.ChapterImagesResponse{Images: []string{}, Error: se.ToDetail()})
			return
		}
		c.JSON(http.StatusOK, models.ChapterImagesResponse{
			Success: true,
			Images:  images,
			Count:   len(images),
		})
	}
}

// EpisodeVideo returns a handler for POST /api/v1/scraper/episode-video.
// A page without a recognizable player still succeeds, with resolved=false
// and the episode URL echoed back.
func EpisodeVideo(sc Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TargetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.EpisodeVideoResponse{Error: invalidInput(err)})
			return
		}

		videoURL, resolved, err := sc.ResolveVideoURL(c.Request.Context(), req.URL)
		if err != nil {
			se := asScrapeError(err)
			c.JSON(mapErrorToStatus(se), models.EpisodeVideoResponse{Error: se.ToDetail()})
			return
		}
		c.JSON(http.StatusOK, models.EpisodeVideoResponse{
			Success:  true,
			VideoURL: videoURL,
			Resolved: resolved,
		})
	}
}

// ChapterText returns a handler for POST /api/v1/scraper/chapter-text.
func ChapterText(sc Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TargetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ChapterTextResponse{Error: invalidInput(err)})
			return
		}

		text, err := sc.ResolveChapterText(c.Request.Context(), req.URL)
		if err != nil {
			se := asScrapeError(err)
			c.JSON(mapErrorToStatus(se), models.ChapterTextResponse{Error: se.ToDetail()})
			return
		}
		c.JSON(http.StatusOK, models.ChapterTextResponse{Success: true, ChapterText: text})
	}
}
