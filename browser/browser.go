// Package browser renders script-heavy catalog pages in headless Chromium.
// It backs the "rod" and "rod-stealth" fetch engines and is only started
// when the browser engine is enabled in configuration.
package browser

import (
	"log/slog"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/mediascout/models"
)

// Options configures the launched browser.
type Options struct {
	Headless  bool
	NoSandbox bool
	Bin       string
	Proxy     string
	UserAgent string

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int

	// BlockedResourceTypes are rod resource type names, e.g. "Image".
	BlockedResourceTypes []string
	BlockAds             bool
}

// Renderer owns one browser process and a pool of reusable tabs.
// It is safe for concurrent use.
type Renderer struct {
	browser     *rod.Browser
	pagePool    rod.Pool[rod.Page]
	opts        Options
	activePages atomic.Int32
}

// Launch starts a Chromium process and connects to it.
func Launch(opts Options) (*Renderer, error) {
	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(opts.NoSandbox)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	if opts.Proxy != "" {
		l = l.Proxy(opts.Proxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("mute-audio"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	if opts.MaxPages < 1 {
		opts.MaxPages = 1
	}
	return &Renderer{
		browser:  b,
		pagePool: rod.NewPagePool(opts.MaxPages),
		opts:     opts,
	}, nil
}

// ActivePages reports how many tabs are currently rendering.
func (r *Renderer) ActivePages() int {
	return int(r.activePages.Load())
}

// MaxPages is the page pool capacity.
func (r *Renderer) MaxPages() int {
	return r.opts.MaxPages
}

// Close drains the page pool and kills the browser process.
func (r *Renderer) Close() {
	r.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	if err := r.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
	slog.Info("browser stopped")
}
