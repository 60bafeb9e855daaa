package httpx

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/stackfort/accountd/pkg/slogx"
)

// RateLimitConfig defines the rate limiting parameters for a window.
type RateLimitConfig struct {
	// Calls is the number of requests allowed per Period.
	Calls int
	// Period is the trailing time window requests are counted over.
	Period time.Duration
	// Burst is only used by the token-bucket limiter and allows short
	// spikes above the sustained rate.
	Burst int
}

// Rate limit profiles. Values can be overridden via environment variables
// (see init below), which the e2e suite relies on.
var (
	// GlobalLimit applies to all inbound traffic, keyed by client IP.
	// Override with: RATELIMIT_GLOBAL_CALLS, RATELIMIT_GLOBAL_PERIOD_SEC
	GlobalLimit = RateLimitConfig{
		Calls:  60,
		Period: time.Minute,
		Burst:  60,
	}

	// StrictLimit guards credential endpoints against brute force.
	// Override with: RATELIMIT_STRICT_CALLS, RATELIMIT_STRICT_PERIOD_SEC,
	// RATELIMIT_STRICT_BURST
	StrictLimit = RateLimitConfig{
		Calls:  5,
		Period: time.Minute,
		Burst:  5,
	}
)

func init() {
	GlobalLimit = ParseRateLimitFromEnv("GLOBAL", GlobalLimit)
	StrictLimit = ParseRateLimitFromEnv("STRICT", StrictLimit)
}

// ParseRateLimitFromEnv reads rate limit overrides from environment
// variables following the pattern RATELIMIT_{prefix}_{field}.
func ParseRateLimitFromEnv(prefix string, defaults RateLimitConfig) RateLimitConfig {
	config := defaults

	if val := os.Getenv("RATELIMIT_" + prefix + "_CALLS"); val != "" {
		if calls, err := strconv.Atoi(val); err == nil && calls > 0 {
			config.Calls = calls
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_PERIOD_SEC"); val != "" {
		if sec, err := strconv.Atoi(val); err == nil && sec > 0 {
			config.Period = time.Duration(sec) * time.Second
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_BURST"); val != "" {
		if burst, err := strconv.Atoi(val); err == nil && burst > 0 {
			config.Burst = burst
		}
	}

	return config
}

// KeyExtractor derives the rate-limit key from a request (client IP,
// user id, form field, or a combination).
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address, honouring
// X-Forwarded-For and X-Real-IP for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// UserIDKeyExtractor extracts the authenticated user id from the request
// context. Returns empty string for anonymous requests.
func UserIDKeyExtractor(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

// FormFieldKeyExtractor extracts a key from a form field (URL params or
// POST body). Useful for limiting login attempts per submitted email.
func FormFieldKeyExtractor(fieldName string) KeyExtractor {
	return func(r *http.Request) string {
		if err := r.ParseForm(); err == nil {
			return r.FormValue(fieldName)
		}
		return ""
	}
}

// CompositeKeyExtractor combines multiple key extractors with a separator.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// SlidingWindowLimiter throttles per key by counting request timestamps
// inside a trailing window. Rejected attempts are not recorded, so a
// client hammering the endpoint does not extend its own lockout.
//
// Idle keys are pruned during a periodic sweep; without it the key space
// would grow with every distinct client address ever seen.
type SlidingWindowLimiter struct {
	calls  int
	period time.Duration

	mu        sync.Mutex
	windows   map[string][]time.Time
	lastSweep time.Time
}

// NewSlidingWindowLimiter returns a limiter admitting calls requests per
// period for each key.
func NewSlidingWindowLimiter(calls int, period time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		calls:     calls,
		period:    period,
		windows:   make(map[string][]time.Time),
		lastSweep: time.Now(),
	}
}

// Allow reports whether a request for key is admitted now. Admitted
// requests are recorded; rejected ones are not.
func (l *SlidingWindowLimiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeSweep(now)

	window := pruneWindow(l.windows[key], now, l.period)
	if len(window) >= l.calls {
		l.windows[key] = window
		return false
	}

	l.windows[key] = append(window, now)
	return true
}

// RetryAfter returns how long the key's oldest recorded request needs to
// age out before another request could be admitted. Zero means a request
// would be admitted now.
func (l *SlidingWindowLimiter) RetryAfter(key string) time.Duration {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	window := pruneWindow(l.windows[key], now, l.period)
	l.windows[key] = window
	if len(window) < l.calls {
		return 0
	}

	return window[0].Add(l.period).Sub(now)
}

// Len returns the number of tracked keys. Used by tests to verify
// pruning.
func (l *SlidingWindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// maybeSweep drops keys whose whole window has expired. Runs at most once
// per period; callers must hold mu.
func (l *SlidingWindowLimiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.period {
		return
	}
	l.lastSweep = now

	cutoff := now.Add(-l.period)
	for key, window := range l.windows {
		if len(window) == 0 || !window[len(window)-1].After(cutoff) {
			delete(l.windows, key)
		}
	}
}

// pruneWindow discards timestamps older than period. The window is
// append-ordered, so the first retained index bounds the rest.
func pruneWindow(window []time.Time, now time.Time, period time.Duration) []time.Time {
	cutoff := now.Add(-period)
	for i, ts := range window {
		if ts.After(cutoff) {
			return window[i:]
		}
	}
	return window[:0]
}

// RateLimit creates a sliding-window rate limiting middleware. The
// keyExtractor determines how requests are grouped.
func RateLimit(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	limiter := NewSlidingWindowLimiter(config.Calls, config.Period)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				// No key means no bucket to count against; let it through.
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(key) {
				retryAfter := max(int(limiter.RetryAfter(key).Seconds()), 1)

				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", config.Calls))
				w.Header().Set("X-RateLimit-Window", config.Period.String())

				log.Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)

				WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error":             "rate_limited",
					"error_description": "Too many requests. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits by client IP address only.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimit(config, IPKeyExtractor)
}
