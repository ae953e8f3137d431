package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

// Dispatcher coordinates the configured engines with staged escalation.
// The lightest engine starts first and heavier ones join after their delay
// if nothing has succeeded yet. Dispatcher itself satisfies Engine.
type Dispatcher struct {
	engines          []Engine
	escalationDelays []time.Duration
	memory           *DomainMemory
}

// NewDispatcher creates a Dispatcher with the given engines and escalation delays.
// engines[i] starts after escalationDelays[i] from the race beginning.
// Missing delays are treated as 0. memory may be nil.
func NewDispatcher(engines []Engine, escalationDelays []time.Duration, memory *DomainMemory) *Dispatcher {
	delays := make([]time.Duration, len(engines))
	copy(delays, escalationDelays)
	return &Dispatcher{
		engines:          engines,
		escalationDelays: delays,
		memory:           memory,
	}
}

func (d *Dispatcher) Name() string { return "auto" }

// Engines lists the engine names in escalation order.
func (d *Dispatcher) Engines() []string {
	names := make([]string, len(d.engines))
	for i, e := range d.engines {
		names[i] = e.Name()
	}
	return names
}

// Fetch makes Dispatcher usable wherever a single Engine is expected.
func (d *Dispatcher) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	return d.Dispatch(ctx, req)
}

// Dispatch returns the first successful result. Each engine is attempted at
// most once per call: when the engine remembered for this host fails, only
// the remaining engines race.
func (d *Dispatcher) Dispatch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if len(d.engines) == 0 {
		return nil, fmt.Errorf("dispatcher: no engines configured")
	}
	host := hostOf(req.URL)
	candidates := d.engines
	delays := d.escalationDelays

	if remembered := d.memory.Get(host); remembered != "" {
		for i, eng := range d.engines {
			if eng.Name() != remembered {
				continue
			}
			slog.Debug("domain memory hit", "host", host, "engine", remembered)
			result, err := eng.Fetch(ctx, req)
			if err == nil {
				return result, nil
			}
			slog.Info("remembered engine failed, racing the others",
				"host", host, "engine", remembered, "error", err)
			d.memory.Delete(host)
			if len(d.engines) == 1 {
				return nil, err
			}
			candidates, delays = without(d.engines, d.escalationDelays, i)
			break
		}
	}

	return d.race(ctx, req, host, candidates, delays)
}

func without(engines []Engine, delays []time.Duration, skip int) ([]Engine, []time.Duration) {
	es := make([]Engine, 0, len(engines)-1)
	ds := make([]time.Duration, 0, len(engines)-1)
	for i := range engines {
		if i == skip {
			continue
		}
		es = append(es, engines[i])
		ds = append(ds, delays[i])
	}
	// The first remaining engine starts immediately.
	if len(ds) > 0 {
		base := ds[0]
		for i := range ds {
			ds[i] -= base
		}
	}
	return es, ds
}

// race runs the engines with staged delays and returns the first success.
func (d *Dispatcher) race(ctx context.Context, req *FetchRequest, host string, engines []Engine, delays []time.Duration) (*FetchResult, error) {
	type raceResult struct {
		result *FetchResult
		err    error
	}

	raceCtx, raceCancel := context.WithCancel(ctx)
	defer raceCancel()

	results := make(chan raceResult, len(engines))
	var wg sync.WaitGroup

	for i, eng := range engines {
		wg.Add(1)
		go func(e Engine, delay time.Duration) {
			defer wg.Done()

			if delay > 0 {
				timer := time.NewTimer(delay)
				defer timer.Stop()
				select {
				case <-raceCtx.Done():
					return
				case <-timer.C:
				}
			}
			if raceCtx.Err() != nil {
				return
			}

			slog.Debug("engine starting", "engine", e.Name(), "url", req.URL)
			result, err := e.Fetch(raceCtx, req)
			if err != nil {
				slog.Debug("engine failed", "engine", e.Name(), "url", req.URL, "error", err)
			}
			results <- raceResult{result: result, err: err}
		}(eng, delays[i])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var lastErr error
	for rr := range results {
		if rr.err != nil {
			lastErr = rr.err
			continue
		}
		raceCancel()
		if len(engines) > 1 {
			slog.Debug("engine won race", "engine", rr.result.EngineName, "url", req.URL)
		}
		d.memory.Set(host, rr.result.EngineName)
		return rr.result, nil
	}

	if lastErr == nil {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dispatcher: %s: %w", req.URL, err)
		}
		lastErr = fmt.Errorf("dispatcher: all engines failed for %s", req.URL)
	}
	return nil, lastErr
}

// hostOf parses the hostname from a URL string.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
