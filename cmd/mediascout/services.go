package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/use-agent/mediascout/browser"
	"github.com/use-agent/mediascout/config"
	"github.com/use-agent/mediascout/engine"
	"github.com/use-agent/mediascout/monitor"
	"github.com/use-agent/mediascout/scraper"
	"github.com/use-agent/mediascout/store"
	"github.com/use-agent/mediascout/webhook"
)

// services is everything a command may need, built from one Config.
type services struct {
	scraper    *scraper.Scraper
	dispatcher *engine.Dispatcher
	renderer   *browser.Renderer // nil unless the browser is enabled
	memory     *engine.DomainMemory
	store      *store.SQLiteStore // nil unless opened
	monitor    *monitor.Monitor   // nil without a store
	notifier   *webhook.Notifier  // nil without a webhook URL
}

// buildScraper wires the fetch engines. The browser engines join the
// dispatcher only when enabled; otherwise the plain HTTP engine is the
// sole tier.
func buildScraper(cfg *config.Config) (*services, error) {
	httpEngine := engine.NewHTTPEngine(engine.HTTPOptions{
		MaxRedirects: cfg.Fetch.MaxRedirects,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		Proxy:        cfg.Fetch.Proxy,
		UserAgent:    cfg.Fetch.UserAgent,
	})
	prober := engine.NewHTTPEngine(engine.HTTPOptions{
		MaxRedirects: cfg.Probe.MaxRedirects,
		Proxy:        cfg.Fetch.Proxy,
		UserAgent:    cfg.Fetch.UserAgent,
	})

	svc := &services{}
	engines := []engine.Engine{httpEngine}
	if cfg.Browser.Enabled {
		r, err := browser.Launch(browser.Options{
			Headless:             cfg.Browser.Headless,
			NoSandbox:            cfg.Browser.NoSandbox,
			Bin:                  cfg.Browser.Bin,
			Proxy:                cfg.Fetch.Proxy,
			UserAgent:            cfg.Fetch.UserAgent,
			MaxPages:             cfg.Browser.MaxPages,
			BlockedResourceTypes: cfg.Browser.BlockedResourceTypes,
			BlockAds:             cfg.Browser.BlockAds,
		})
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		svc.renderer = r
		engines = append(engines,
			engine.NewRodEngine(r.Render, false),
			engine.NewRodEngine(r.Render, true),
		)
	}

	svc.memory = engine.NewDomainMemory(cfg.Engine.MemoryTTL)
	svc.dispatcher = engine.NewDispatcher(engines, cfg.Engine.EscalationDelays, svc.memory)
	svc.scraper = scraper.New(svc.dispatcher, prober, scraper.Options{
		FetchTimeout: cfg.Fetch.Timeout,
		ProbeTimeout: cfg.Probe.Timeout,
	})
	slog.Info("fetch engines ready", "engines", svc.dispatcher.Engines())
	return svc, nil
}

// openStore opens and migrates the source database and builds the monitor.
func (svc *services) openStore(ctx context.Context, cfg *config.Config) error {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return err
	}
	svc.store = st
	svc.notifier = webhook.New(cfg.Webhook.URL, cfg.Webhook.Secret)
	svc.monitor = monitor.New(st, svc.scraper, svc.notifier, monitor.Options{
		BatchSize:   cfg.Monitor.BatchSize,
		Concurrency: cfg.Monitor.Concurrency,
		StaleAfter:  cfg.Monitor.StaleAfter,
	})
	return nil
}

// drainWebhooks waits up to timeout for queued webhook deliveries.
func (svc *services) drainWebhooks(timeout time.Duration) {
	if svc.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := svc.notifier.Wait(ctx); err != nil {
		slog.Warn("exiting with undelivered webhooks", "error", err)
	}
}

func (svc *services) Close() {
	if svc.store != nil {
		if err := svc.store.Close(); err != nil {
			slog.Warn("store close failed", "error", err)
		}
	}
	if svc.renderer != nil {
		svc.renderer.Close()
	}
	svc.memory.Stop()
}
