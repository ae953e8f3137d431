// Package handler implements the HTTP API endpoints.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/mediascout/models"
)

// Scraper is the extraction surface the scraper endpoints call.
type Scraper interface {
	Preview(ctx context.Context, rawURL string) (*models.Preview, error)
	ResolveChapterImages(ctx context.Context, chapterURL string) ([]string, error)
	ResolveVideoURL(ctx context.Context, episodeURL string) (string, bool, error)
	ResolveChapterText(ctx context.Context, chapterURL string) (*models.ChapterText, error)
	CheckLinkStatus(ctx context.Context, rawURL string) models.LinkHealth
}

// LinkChecker runs a bulk check over tracked sources.
type LinkChecker interface {
	CheckDue(ctx context.Context, all bool) (*models.CheckLinksResult, error)
}

// SourceStore is the tracked source registry.
type SourceStore interface {
	Add(ctx context.Context, req models.SourceRequest) (*models.Source, error)
	Get(ctx context.Context, id string) (*models.Source, error)
	List(ctx context.Context, limit int) ([]models.Source, error)
}

// asScrapeError unwraps err into a *models.ScrapeError, falling back to
// INTERNAL_ERROR.
func asScrapeError(err error) *models.ScrapeError {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se
	}
	return models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
}

// invalidInput builds the 400 detail for a malformed request body.
func invalidInput(err error) *models.ErrorDetail {
	return &models.ErrorDetail{
		Code:    models.ErrCodeInvalidInput,
		Message: err.Error(),
	}
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeFetchTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeFetchFailed, models.ErrCodeTooManyRedirects, models.ErrCodeUpstreamStatus:
		return http.StatusBadGateway // 502
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}

// respondError writes the generic failure envelope for err.
func respondError(c *gin.Context, err error) {
	se := asScrapeError(err)
	c.JSON(mapErrorToStatus(se), models.ErrorResponse{
		Success: false,
		Error:   se.ToDetail(),
	})
}
