package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	// IdleTTL evicts per-client limiters that have not been used for this
	// long. Zero disables eviction.
	IdleTTL time.Duration
	// Exempt lists route paths that are never limited.
	Exempt []string
}

// DefaultRateLimitConfig limits the REST API and leaves the health probe
// and the long-lived stream alone.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
		IdleTTL:           10 * time.Minute,
		Exempt:            []string{"/health", "/stream"},
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet hands out one token bucket per key.
type limiterSet struct {
	cfg       RateLimitConfig
	now       func() time.Time
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newLimiterSet(cfg RateLimitConfig) *limiterSet {
	return &limiterSet{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// reserve takes a token for key. When none is available it returns how
// long the caller should wait.
func (s *limiterSet) reserve(key string) (bool, time.Duration) {
	s.mu.Lock()
	now := s.now()
	s.sweep(now)
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: newLimiter(s.cfg)}
		s.buckets[key] = b
	}
	b.lastSeen = now
	s.mu.Unlock()

	return take(b.limiter, now)
}

// sweep runs at most once per TTL; callers hold mu.
func (s *limiterSet) sweep(now time.Time) {
	if s.cfg.IdleTTL <= 0 || now.Sub(s.lastSweep) < s.cfg.IdleTTL {
		return
	}
	s.lastSweep = now
	for key, b := range s.buckets {
		if now.Sub(b.lastSeen) > s.cfg.IdleTTL {
			delete(s.buckets, key)
		}
	}
}

func (s *limiterSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

func newLimiter(cfg RateLimitConfig) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
}

func take(l *rate.Limiter, now time.Time) (bool, time.Duration) {
	r := l.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// RateLimit creates a per-IP rate limiting middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	set := newLimiterSet(cfg)
	exempt := exemptions(cfg.Exempt)

	return func(c *gin.Context) {
		if exempt[c.FullPath()] {
			c.Next()
			return
		}
		if ok, wait := set.reserve(c.ClientIP()); !ok {
			reject(c, wait)
			return
		}
		c.Next()
	}
}

// GlobalRateLimit shares one bucket between every client.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := newLimiter(cfg)
	exempt := exemptions(cfg.Exempt)

	return func(c *gin.Context) {
		if exempt[c.FullPath()] {
			c.Next()
			return
		}
		if ok, wait := take(limiter, time.Now()); !ok {
			reject(c, wait)
			return
		}
		c.Next()
	}
}

func exemptions(paths []string) map[string]bool {
	m := make(map[string]bool, len(paths))
	for _, p := range paths {
		m[p] = true
	}
	return m
}

func reject(c *gin.Context, wait time.Duration) {
	c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error": "rate limit exceeded",
	})
}
