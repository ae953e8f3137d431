package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/use-agent/mediascout/api"
	"github.com/use-agent/mediascout/cache"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the periodic link monitor when configured)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	slog.Info("mediascout starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"browser", cfg.Browser.Enabled,
	)

	// ── 1. Engines + scraper ────────────────────────────────────────
	svc, err := buildScraper(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	// ── 2. Source store + monitor ───────────────────────────────────
	if err := svc.openStore(ctx, cfg); err != nil {
		return err
	}

	// ── 3. Preview cache ────────────────────────────────────────────
	cc := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	defer cc.Stop()

	// ── 4. Router ───────────────────────────────────────────────────
	deps := api.Deps{
		Scraper:   svc.scraper,
		Checker:   svc.monitor,
		Sources:   svc.store,
		Cache:     cc,
		Engines:   svc.dispatcher.Engines(),
		StartTime: time.Now(),
	}
	if svc.renderer != nil {
		deps.Pool = svc.renderer
	}
	router := api.NewRouter(cfg, deps)

	// ── 5. Periodic monitor ─────────────────────────────────────────
	if cfg.Monitor.Interval > 0 {
		slog.Info("link monitor scheduled", "interval", cfg.Monitor.Interval)
		go svc.monitor.Run(ctx, cfg.Monitor.Interval)
	}

	// ── 6. HTTP server ──────────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give in-flight requests 5 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}
	svc.drainWebhooks(cfg.Webhook.DrainTimeout)

	slog.Info("mediascout stopped")
	return nil
}
