package browser

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/mediascout/engine"
	"github.com/use-agent/mediascout/models"
	"github.com/ysmood/gson"
)

// Render loads req.URL in a pooled tab and returns the rendered DOM.
// Its signature matches engine.RenderFunc.
//
// Stealth scripts and the request hijack must be installed before
// navigation; they only apply to documents loaded afterwards.
func (r *Renderer) Render(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	r.activePages.Add(1)
	defer r.activePages.Add(-1)

	page, err := r.pagePool.Get(func() (*rod.Page, error) {
		return r.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to acquire page", err)
	}
	removeStealth := installStealth(page, req.Stealth)
	// Uses the page without the request context so cleanup still works
	// after a timeout. The stealth script is removed before the tab goes
	// back to the pool so later plain renders do not inherit it.
	defer func() {
		removeStealth()
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to reset page", "error", navErr)
		}
		r.pagePool.Put(page)
	}()

	if headers := r.extraHeaders(req); len(headers) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(headers)}.Call(page)
	}
	if r.opts.UserAgent != "" {
		_ = proto.NetworkSetUserAgentOverride{UserAgent: r.opts.UserAgent}.Call(page)
	}

	router := setupHijack(page, r.opts.BlockedResourceTypes, r.opts.BlockAds)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)
	if err := p.Navigate(req.URL); err != nil {
		return nil, categorizeError(err, "navigation failed")
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("DOM did not settle, using current DOM", "url", req.URL, "error", err)
	}

	statusCode := 0
	if res, err := p.Eval(`() => {
		try {
			const e = performance.getEntriesByType("navigation");
			if (e.length > 0) return e[0].responseStatus || 0;
		} catch (err) {}
		return 0;
	}`); err == nil {
		statusCode = res.Value.Int()
	}
	if statusCode >= 400 {
		return nil, &engine.StatusError{StatusCode: statusCode, URL: req.URL}
	}

	rawHTML, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, "failed to read rendered HTML")
	}

	finalURL := evalString(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &engine.FetchResult{
		HTML:       rawHTML,
		Title:      evalString(p, `() => document.title`),
		StatusCode: statusCode,
		FinalURL:   finalURL,
	}, nil
}

// scriptInjector is the part of *rod.Page used to register scripts that
// run before every new document.
type scriptInjector interface {
	EvalOnNewDocument(js string) (remove func() error, err error)
}

// installStealth registers the stealth script when enabled and returns the
// function that unregisters it. The returned function is never nil.
func installStealth(page scriptInjector, enabled bool) func() {
	if !enabled {
		return func() {}
	}
	remove, err := page.EvalOnNewDocument(stealth.JS)
	if err != nil {
		slog.Warn("stealth injection failed, rendering without it", "error", err)
		return func() {}
	}
	return func() {
		if err := remove(); err != nil {
			slog.Warn("cleanup: failed to remove stealth script", "error", err)
		}
	}
}

// extraHeaders merges request headers with a search-engine Referer when
// the caller did not supply one.
func (r *Renderer) extraHeaders(req *engine.FetchRequest) map[string]string {
	headers := make(map[string]string, len(req.Headers)+1)
	if _, ok := req.Headers["Referer"]; !ok {
		if u, err := url.Parse(req.URL); err == nil && u.Hostname() != "" {
			headers["Referer"] = "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
		}
	}
	for k, v := range req.Headers {
		headers[k] = v
	}
	return headers
}

func evalString(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to proto.NetworkHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeFetchTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeFetchTimeout, "render canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeFetchFailed, msg, err)
	}
}
