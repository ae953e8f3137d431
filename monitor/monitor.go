// Package monitor runs bulk link checks over tracked sources.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/use-agent/mediascout/models"
	"github.com/use-agent/mediascout/webhook"
)

// Store is the subset of the source store a check run needs.
type Store interface {
	ListDue(ctx context.Context, all bool, staleAfter time.Duration, limit int) ([]models.Source, error)
	UpdateStatus(ctx context.Context, id, status, errMsg string, checkedAt time.Time) error
}

// Checker probes one URL and never fails.
type Checker interface {
	CheckLinkStatus(ctx context.Context, rawURL string) models.LinkHealth
}

// Options controls a Monitor.
type Options struct {
	BatchSize   int           // default: 10
	Concurrency int           // default: 1
	StaleAfter  time.Duration // default: 24h
}

// Monitor checks due sources and records their health.
type Monitor struct {
	store    Store
	checker  Checker
	notifier *webhook.Notifier
	opts     Options
	now      func() time.Time
}

// New creates a Monitor. notifier may be nil.
func New(store Store, checker Checker, notifier *webhook.Notifier, opts Options) *Monitor {
	if opts.BatchSize < 1 {
		opts.BatchSize = 10
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 24 * time.Hour
	}
	return &Monitor{
		store:    store,
		checker:  checker,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
	}
}

// CheckDue probes up to BatchSize due sources, at most Concurrency at a
// time. With all set the staleness window is ignored. Results keep
// selection order. A source whose new status cannot be saved is logged and
// still reported.
func (m *Monitor) CheckDue(ctx context.Context, all bool) (*models.CheckLinksResult, error) {
	runID := uuid.New().String()

	sources, err := m.store.ListDue(ctx, all, m.opts.StaleAfter, m.opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("monitor: select sources: %w", err)
	}

	results := make([]models.SourceCheck, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Concurrency)
	for i, src := range sources {
		g.Go(func() error {
			results[i] = m.checkOne(gctx, runID, src)
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("link check complete",
		"run_id", runID,
		"processed", len(results),
		"all", all,
	)
	return &models.CheckLinksResult{
		RunID:     runID,
		Processed: len(results),
		Results:   results,
	}, nil
}

func (m *Monitor) checkOne(ctx context.Context, runID string, src models.Source) models.SourceCheck {
	health := m.checker.CheckLinkStatus(ctx, src.SourceURL)
	check := models.SourceCheck{
		ID:         src.ID,
		SourceURL:  src.SourceURL,
		LinkHealth: health,
		Previous:   src.Status,
	}

	if err := m.store.UpdateStatus(ctx, src.ID, health.Status, health.Error, m.now()); err != nil {
		slog.Error("save source status failed",
			"run_id", runID,
			"source_id", src.ID,
			"error", err,
		)
	}

	// A pending source's first probe is not a change.
	if health.Status != src.Status && src.Status != models.SourcePending {
		slog.Info("source status changed",
			"source_id", src.ID,
			"url", src.SourceURL,
			"from", src.Status,
			"to", health.Status,
		)
		m.notifier.Notify(webhook.NewStatusChanged(check))
	}
	return check
}

// Run calls CheckDue every interval until ctx is done. A non-positive
// interval returns immediately.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.CheckDue(ctx, false); err != nil {
				slog.Error("scheduled link check failed", "error", err)
			}
		}
	}
}
