package ratelimit

import (
	"sync"
	"time"

	"github.com/richxcame/finsight/pkg/config"
	"golang.org/x/time/rate"
)

// idleAfter is how long a key may go unused before its bucket is dropped
const idleAfter = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per key (usually the client IP)
type Limiter struct {
	cfg     config.RateLimitConfig
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewLimiter creates a Limiter from configuration
func NewLimiter(cfg config.RateLimitConfig) *Limiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &Limiter{
		cfg:     cfg,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// WithNow overrides the clock, for tests
func (l *Limiter) WithNow(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow reports whether a request for key may proceed
func (l *Limiter) Allow(key string) bool {
	if !l.cfg.Enabled {
		return true
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	l.sweep(now)

	return e.limiter.AllowN(now, 1)
}

func (l *Limiter) sweep(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > idleAfter {
			delete(l.entries, k)
		}
	}
}
