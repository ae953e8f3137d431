package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/use-agent/mediascout/engine"
	"github.com/use-agent/mediascout/models"
)

// Prober performs a lightweight existence check and returns the final
// status code.
type Prober interface {
	Head(ctx context.Context, rawURL string) (int, error)
}

// Options controls per-operation budgets.
type Options struct {
	FetchTimeout time.Duration // default: 15s
	ProbeTimeout time.Duration // default: 10s
}

// Scraper binds the extractors to a fetch engine and a prober. It holds no
// per-page state; every call owns its own Document.
type Scraper struct {
	fetcher      engine.Engine
	prober       Prober
	fetchTimeout time.Duration
	probeTimeout time.Duration
}

// New creates a Scraper. fetcher is usually an *engine.Dispatcher and
// prober an *engine.HTTPEngine configured with the probe redirect ceiling.
func New(fetcher engine.Engine, prober Prober, opts Options) *Scraper {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 10 * time.Second
	}
	return &Scraper{
		fetcher:      fetcher,
		prober:       prober,
		fetchTimeout: opts.FetchTimeout,
		probeTimeout: opts.ProbeTimeout,
	}
}

// FetchDocument retrieves and parses rawURL. Failures are *models.ScrapeError
// values: INVALID_INPUT before any network call, otherwise one of the
// FETCH_* / TOO_MANY_REDIRECTS / UPSTREAM_STATUS codes.
func (s *Scraper) FetchDocument(ctx context.Context, rawURL string) (*Document, error) {
	return s.fetch(ctx, rawURL, nil)
}

func (s *Scraper) fetch(ctx context.Context, rawURL string, headers map[string]string) (*Document, error) {
	if _, err := parseTarget(rawURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.fetcher.Fetch(ctx, &engine.FetchRequest{
		URL:     rawURL,
		Headers: headers,
		Timeout: s.fetchTimeout,
	})
	if err != nil {
		slog.Debug("fetch failed", "url", rawURL, "elapsed", time.Since(start), "error", err)
		return nil, s.categorizeFetchError(err)
	}
	slog.Debug("fetched page",
		"url", rawURL,
		"engine", res.EngineName,
		"status", res.StatusCode,
		"title", res.Title,
		"bytes", len(res.HTML),
		"elapsed", time.Since(start),
	)

	doc, err := ParseDocument(res.HTML, rawURL, res.FinalURL)
	if err != nil {
		var se *models.ScrapeError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, models.NewScrapeError(models.ErrCodeFetchFailed, "unreadable document", err)
	}
	return doc, nil
}

// fetchWithReferer fetches a sub-page presenting its own origin as Referer,
// which many reader and player pages require.
func (s *Scraper) fetchWithReferer(ctx context.Context, rawURL string) (*Document, error) {
	u, err := parseTarget(rawURL)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, rawURL, map[string]string{"Referer": originOf(u)})
}

// categorizeFetchError maps engine failures onto API error codes.
func (s *Scraper) categorizeFetchError(err error) *models.ScrapeError {
	var se *models.ScrapeError
	var statusErr *engine.StatusError
	switch {
	case errors.As(err, &se):
		return se
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeFetchTimeout,
			fmt.Sprintf("timed out after %s", s.fetchTimeout), err)
	case errors.Is(err, engine.ErrTooManyRedirects):
		return models.NewScrapeError(models.ErrCodeTooManyRedirects, "too many redirects", err)
	case errors.As(err, &statusErr):
		return models.NewScrapeError(models.ErrCodeUpstreamStatus,
			fmt.Sprintf("upstream returned status %d", statusErr.StatusCode), err)
	default:
		return models.NewScrapeError(models.ErrCodeFetchFailed, "request failed", err)
	}
}
