// Package ratelimit implements token bucket rate limiting for outbound calls,
// keyed by upstream service name.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/JakeFAU/travelhub/internal/telemetry"
	"golang.org/x/time/rate"
)

// Limiter manages per-service rate limits.
type Limiter struct {
	mu           sync.Mutex
	limiters     map[string]*rate.Limiter
	rates        map[string]rate.Limit
	defaultRate  rate.Limit
	defaultBurst int
}

// Config holds rate limiter configuration. PerService overrides DefaultRPS
// for the named services; non-positive rates mean unlimited.
type Config struct {
	DefaultRPS   float64
	DefaultBurst int
	PerService   map[string]float64
}

// New creates a new Limiter.
func New(cfg Config) *Limiter {
	burst := cfg.DefaultBurst
	if burst <= 0 {
		burst = 1
	}
	rates := make(map[string]rate.Limit, len(cfg.PerService))
	for service, rps := range cfg.PerService {
		rates[service] = toLimit(rps)
	}
	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		rates:        rates,
		defaultRate:  toLimit(cfg.DefaultRPS),
		defaultBurst: burst,
	}
}

// Wait blocks until a token is available for the given service, respecting the context.
func (l *Limiter) Wait(ctx context.Context, service string) error {
	if l == nil {
		return nil
	}
	limiter := l.limiterFor(service)

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	// Immediate grants are not delays.
	if duration := time.Since(start); duration > time.Millisecond {
		telemetry.ObserveRateLimitDelay(service, duration)
	}
	return nil
}

func (l *Limiter) limiterFor(service string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, exists := l.limiters[service]
	if !exists {
		r, ok := l.rates[service]
		if !ok {
			r = l.defaultRate
		}
		limiter = rate.NewLimiter(r, l.defaultBurst)
		l.limiters[service] = limiter
	}
	return limiter
}

func toLimit(rps float64) rate.Limit {
	if rps <= 0 {
		return rate.Inf
	}
	return rate.Limit(rps)
}
