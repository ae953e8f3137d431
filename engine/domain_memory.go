package engine

import (
	"sync"
	"time"
)

type memoryEntry struct {
	engine    string
	expiresAt time.Time
}

// DomainMemory remembers which engine last produced a page for each host.
// A nil *DomainMemory is valid and remembers nothing.
type DomainMemory struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewDomainMemory creates a DomainMemory with the given TTL and starts
// an hourly sweep of expired entries.
func NewDomainMemory(ttl time.Duration) *DomainMemory {
	dm := &DomainMemory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go dm.sweepLoop(time.Hour)
	return dm
}

// Get returns the remembered engine name for host, or "" if none is live.
func (dm *DomainMemory) Get(host string) string {
	if dm == nil {
		return ""
	}
	dm.mu.RLock()
	e, ok := dm.entries[host]
	dm.mu.RUnlock()
	if !ok || dm.now().After(e.expiresAt) {
		return ""
	}
	return e.engine
}

// Set records which engine succeeded for host.
func (dm *DomainMemory) Set(host, engine string) {
	if dm == nil || host == "" {
		return
	}
	dm.mu.Lock()
	dm.entries[host] = memoryEntry{engine: engine, expiresAt: dm.now().Add(dm.ttl)}
	dm.mu.Unlock()
}

// Delete forgets host.
func (dm *DomainMemory) Delete(host string) {
	if dm == nil {
		return
	}
	dm.mu.Lock()
	delete(dm.entries, host)
	dm.mu.Unlock()
}

// Len reports how many hosts are remembered, expired or not.
func (dm *DomainMemory) Len() int {
	if dm == nil {
		return 0
	}
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.entries)
}

// Stop terminates the background sweep. It is safe to call more than once.
func (dm *DomainMemory) Stop() {
	if dm == nil {
		return
	}
	dm.stopOnce.Do(func() { close(dm.done) })
}

func (dm *DomainMemory) sweep() {
	now := dm.now()
	dm.mu.Lock()
	for host, e := range dm.entries {
		if now.After(e.expiresAt) {
			delete(dm.entries, host)
		}
	}
	dm.mu.Unlock()
}

func (dm *DomainMemory) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-dm.done:
			return
		case <-ticker.C:
			dm.sweep()
		}
	}
}
