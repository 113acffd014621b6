package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig tunes the per-client limiter.
type RateLimitConfig struct {
	RPS     float64       // steady-state tokens per second
	Burst   int           // bucket capacity
	IdleTTL time.Duration // idle time before a client's bucket is dropped
}

// clientLimiter pairs a token bucket with its last use, for cleanup.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key (the remote IP). Buckets
// for idle clients are swept periodically so the map doesn't grow without
// bound.
type RateLimiter struct {
	conf    RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*clientLimiter
}

// NewRateLimiter creates a RateLimiter and starts its background sweep.
func NewRateLimiter(conf RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		conf:    conf,
		buckets: make(map[string]*clientLimiter),
	}

	go func() {
		interval := conf.IdleTTL / 2
		if interval <= 0 {
			interval = time.Minute
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			rl.mu.Lock()
			for key, b := range rl.buckets {
				if now.Sub(b.lastSeen) > rl.conf.IdleTTL {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}

	lim := rate.NewLimiter(rate.Limit(rl.conf.RPS), rl.conf.Burst)
	rl.buckets[key] = &clientLimiter{limiter: lim, lastSeen: now}
	return lim
}

// Middleware enforces the limit keyed by r.RemoteAddr. Behind chi's RealIP
// middleware that is the client address, not the proxy's. Exhausted buckets
// get 429 with a Retry-After hint.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lim := rl.limiterFor(r.RemoteAddr)

		if !lim.Allow() {
			w.Header().Set("Retry-After", "1")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message":"Too many requests. Please try again later."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
