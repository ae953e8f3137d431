package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/use-agent/mediascout/models"
)

// CheckLinkStatus probes rawURL and classifies it. It never fails: every
// outcome, including an unreachable host, is a LinkHealth.
//
//	2xx, 3xx        active
//	404             offline
//	other 4xx       error
//	5xx, transport  offline with statusCode 0
func (s *Scraper) CheckLinkStatus(ctx context.Context, rawURL string) models.LinkHealth {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	start := time.Now()
	code, err := s.prober.Head(ctx, rawURL)
	elapsed := time.Since(start).Milliseconds()

	if err == nil && code >= 500 {
		err = fmt.Errorf("request failed with status code %d", code)
	}
	if err != nil {
		return models.LinkHealth{
			Status:       models.LinkOffline,
			StatusCode:   0,
			ResponseTime: elapsed,
			Error:        err.Error(),
		}
	}

	health := models.LinkHealth{StatusCode: code, ResponseTime: elapsed}
	switch {
	case code >= 200 && code < 400:
		health.Status = models.LinkActive
	case code == 404:
		health.Status = models.LinkOffline
	default:
		health.Status = models.LinkError
	}
	return health
}
