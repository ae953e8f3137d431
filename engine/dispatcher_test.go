package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	name  string
	delay time.Duration
	err   error
	calls atomic.Int32
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &FetchResult{HTML: "<html></html>", StatusCode: 200, FinalURL: req.URL, EngineName: s.name}, nil
}

func newTestMemory(t *testing.T) *DomainMemory {
	t.Helper()
	m := NewDomainMemory(time.Hour)
	t.Cleanup(m.Stop)
	return m
}

func TestDispatcherFirstSuccessWins(t *testing.T) {
	fast := &stubEngine{name: "http"}
	slow := &stubEngine{name: "rod", delay: time.Second}
	mem := newTestMemory(t)

	d := NewDispatcher([]Engine{fast, slow}, []time.Duration{0, 500 * time.Millisecond}, mem)
	res, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com/a"})
	require.NoError(t, err)

	assert.Equal(t, "http", res.EngineName)
	assert.Equal(t, "http", mem.Get("example.com"))
	assert.Equal(t, int32(0), slow.calls.Load())
}

func TestDispatcherEscalatesOnFailure(t *testing.T) {
	broken := &stubEngine{name: "http", err: errors.New("blocked")}
	browser := &stubEngine{name: "rod"}

	d := NewDispatcher([]Engine{broken, browser}, []time.Duration{0, 10 * time.Millisecond}, newTestMemory(t))
	res, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com/a"})
	require.NoError(t, err)
	assert.Equal(t, "rod", res.EngineName)
}

func TestDispatcherRememberedEngineFailsNoSecondAttempt(t *testing.T) {
	httpEng := &stubEngine{name: "http"}
	rod := &stubEngine{name: "rod", err: errors.New("crashed")}
	mem := newTestMemory(t)
	mem.Set("example.com", "rod")

	d := NewDispatcher([]Engine{httpEng, rod}, []time.Duration{0, 0}, mem)
	res, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com/a"})
	require.NoError(t, err)

	assert.Equal(t, "http", res.EngineName)
	assert.Equal(t, int32(1), rod.calls.Load())
	assert.Equal(t, "http", mem.Get("example.com"))
}

func TestDispatcherSingleEngineNoRetry(t *testing.T) {
	httpEng := &stubEngine{name: "http", err: errors.New("refused")}
	mem := newTestMemory(t)
	mem.Set("example.com", "http")

	d := NewDispatcher([]Engine{httpEng}, nil, mem)
	_, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com/a"})

	require.Error(t, err)
	assert.Equal(t, int32(1), httpEng.calls.Load())
	assert.Equal(t, "", mem.Get("example.com"))
}

func TestDispatcherAllFail(t *testing.T) {
	errA := errors.New("a failed")
	d := NewDispatcher([]Engine{&stubEngine{name: "a", err: errA}}, nil, nil)

	_, err := d.Fetch(context.Background(), &FetchRequest{URL: "https://example.com"})
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, []string{"a"}, d.Engines())
}

func TestDispatcherNoEngines(t *testing.T) {
	_, err := NewDispatcher(nil, nil, nil).Dispatch(context.Background(), &FetchRequest{URL: "https://example.com"})
	assert.Error(t, err)
}

func TestDomainMemoryExpiry(t *testing.T) {
	mem := newTestMemory(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }

	mem.Set("example.com", "rod")
	assert.Equal(t, "rod", mem.Get("example.com"))

	now = now.Add(2 * time.Hour)
	assert.Equal(t, "", mem.Get("example.com"))
	assert.Equal(t, 1, mem.Len())

	mem.sweep()
	assert.Equal(t, 0, mem.Len())
}

func TestDomainMemoryNilSafe(t *testing.T) {
	var mem *DomainMemory
	mem.Set("example.com", "http")
	assert.Equal(t, "", mem.Get("example.com"))
	mem.Delete("example.com")
	mem.Stop()
}

func TestRodEngineForcesStealth(t *testing.T) {
	var sawStealth bool
	render := func(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
		sawStealth = req.Stealth
		return &FetchResult{HTML: "<html></html>"}, nil
	}

	e := NewRodEngine(render, true)
	req := &FetchRequest{URL: "https://example.com"}
	res, err := e.Fetch(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, sawStealth)
	assert.False(t, req.Stealth)
	assert.Equal(t, "rod-stealth", res.EngineName)
	assert.Equal(t, "rod", NewRodEngine(render, false).Name())
}

func TestRodEngineWithoutRenderer(t *testing.T) {
	_, err := NewRodEngine(nil, false).Fetch(context.Background(), &FetchRequest{URL: "https://example.com"})
	assert.ErrorContains(t, err, "renderer not configured")
}
