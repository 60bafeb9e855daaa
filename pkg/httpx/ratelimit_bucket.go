package httpx

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/stackfort/accountd/pkg/slogx"
)

// BucketLimiter wraps golang.org/x/time/rate limiters keyed by client.
// Unlike the sliding window it allows configured bursts, which suits
// credential endpoints where a handful of quick retries after a typo is
// legitimate but sustained hammering is not.
type BucketLimiter struct {
	limit rate.Limit
	burst int

	mu          sync.Mutex
	limiters    map[string]*bucketEntry
	lastCleanup time.Time
}

type bucketEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewBucketLimiter returns a per-key token bucket limiter derived from
// config: the sustained rate is Calls/Period and bursts up to Burst.
func NewBucketLimiter(config RateLimitConfig) *BucketLimiter {
	return &BucketLimiter{
		limit:       rate.Limit(float64(config.Calls) / config.Period.Seconds()),
		burst:       config.Burst,
		limiters:    make(map[string]*bucketEntry),
		lastCleanup: time.Now(),
	}
}

// Allow reports whether a request for key is admitted now.
func (b *BucketLimiter) Allow(key string) bool {
	now := time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.maybeCleanup(now)

	entry, ok := b.limiters[key]
	if !ok {
		entry = &bucketEntry{limiter: rate.NewLimiter(b.limit, b.burst)}
		b.limiters[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.Allow()
}

// maybeCleanup evicts buckets idle long enough to have refilled fully.
// Callers must hold mu.
func (b *BucketLimiter) maybeCleanup(now time.Time) {
	if now.Sub(b.lastCleanup) < time.Minute {
		return
	}
	b.lastCleanup = now

	idle := time.Duration(float64(b.burst)/float64(b.limit)) * time.Second
	if idle < time.Minute {
		idle = time.Minute
	}
	for key, entry := range b.limiters {
		if now.Sub(entry.lastSeen) > idle {
			delete(b.limiters, key)
		}
	}
}

// RateLimitBucket creates a token-bucket rate limiting middleware.
func RateLimitBucket(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	limiter := NewBucketLimiter(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(key) {
				w.Header().Set("Retry-After", "1")
				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", config.Calls))

				log.Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
				)

				WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error":             "rate_limited",
					"error_description": "Too many attempts. Please slow down.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIPAndFormField limits credential endpoints by both the
// client IP and a submitted form field, so one address cannot spray
// attempts across accounts nor one account be locked from everywhere.
func RateLimitByIPAndFormField(config RateLimitConfig, fieldName string) Middleware {
	return RateLimitBucket(config, CompositeKeyExtractor("|",
		IPKeyExtractor,
		FormFieldKeyExtractor(fieldName),
	))
}
