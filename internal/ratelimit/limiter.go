// Package ratelimit provides per-host request pacing so crawls stay polite
// toward the site under test.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kuitang/site-e2e/internal/errs"
	"github.com/kuitang/site-e2e/internal/urlutil"
)

// Config defines the pacing applied to each host.
type Config struct {
	RPS             float64       // Requests per second per host
	Burst           int           // Burst size per host
	CleanupInterval time.Duration // How often to drop idle host limiters
}

// DefaultConfig paces a crawl at two pages per second per host.
var DefaultConfig = Config{
	RPS:             2,
	Burst:           1,
	CleanupInterval: 10 * time.Minute,
}

// hostLimiterEntry holds a rate limiter and tracks its last usage.
type hostLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// HostLimiter manages one token bucket per host.
type HostLimiter struct {
	limiters map[string]*hostLimiterEntry
	mu       sync.RWMutex
	config   Config

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewHostLimiter creates a limiter with the given configuration and starts a
// background goroutine that drops idle hosts. Call Stop when done.
func NewHostLimiter(config Config) *HostLimiter {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig.CleanupInterval
	}
	hl := &HostLimiter{
		limiters: make(map[string]*hostLimiterEntry),
		config:   config,
		stopCh:   make(chan struct{}),
	}

	hl.wg.Add(1)
	go hl.cleanupLoop()

	return hl
}

// Wait blocks until a request to rawURL's host is allowed or ctx is done.
func (hl *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	host := urlutil.Host(rawURL)
	if host == "" {
		return errs.New(errs.InvalidArgument, "no host in "+rawURL)
	}
	if err := hl.GetLimiter(host).Wait(ctx); err != nil {
		return errs.Wrap(errs.Timeout, "wait for "+host, err)
	}
	return nil
}

// Allow reports whether a request to rawURL's host may proceed now.
// URLs without a host are never allowed.
func (hl *HostLimiter) Allow(rawURL string) bool {
	host := urlutil.Host(rawURL)
	if host == "" {
		return false
	}
	return hl.GetLimiter(host).Allow()
}

// GetLimiter returns the limiter for host, creating one if necessary.
func (hl *HostLimiter) GetLimiter(host string) *rate.Limiter {
	// Fast path: check if limiter exists with read lock
	hl.mu.RLock()
	entry, exists := hl.limiters[host]
	hl.mu.RUnlock()
	if exists {
		hl.touch(entry)
		return entry.limiter
	}

	hl.mu.Lock()
	defer hl.mu.Unlock()

	// Double-check after acquiring write lock
	if entry, exists = hl.limiters[host]; exists {
		entry.lastUsed = time.Now()
		return entry.limiter
	}

	limiter := rate.NewLimiter(rate.Limit(hl.config.RPS), hl.config.Burst)
	hl.limiters[host] = &hostLimiterEntry{
		limiter:  limiter,
		lastUsed: time.Now(),
	}
	return limiter
}

func (hl *HostLimiter) touch(entry *hostLimiterEntry) {
	hl.mu.Lock()
	entry.lastUsed = time.Now()
	hl.mu.Unlock()
}

// Cleanup removes limiters that have been idle longer than the cleanup interval.
func (hl *HostLimiter) Cleanup() {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	cutoff := time.Now().Add(-hl.config.CleanupInterval)
	for host, entry := range hl.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(hl.limiters, host)
		}
	}
}

func (hl *HostLimiter) cleanupLoop() {
	defer hl.wg.Done()

	ticker := time.NewTicker(hl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			hl.Cleanup()
		case <-hl.stopCh:
			return
		}
	}
}

// Stop stops the cleanup goroutine and waits for it to finish.
func (hl *HostLimiter) Stop() {
	close(hl.stopCh)
	hl.wg.Wait()
}

// Len returns the number of hosts currently tracked.
func (hl *HostLimiter) Len() int {
	hl.mu.RLock()
	defer hl.mu.RUnlock()
	return len(hl.limiters)
}
