package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

const (
	defaultLimiterIdleTTL = 10 * time.Minute
	limiterSweepEvery     = 256
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware applies a token bucket per client IP. Buckets idle for
// longer than idleTTL are dropped during periodic sweeps.
type RateLimitMiddleware struct {
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
	hits     int
}

func NewRateLimitMiddleware(requestsPerSecond float64, burst int) *RateLimitMiddleware {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitMiddleware{
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
		idleTTL:  defaultLimiterIdleTTL,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

func (m *RateLimitMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !m.allow(c.IP()) {
			c.Set(fiber.HeaderRetryAfter, "1")
			return NewAppError(fiber.StatusTooManyRequests, "Too many requests", nil, nil)
		}
		return c.Next()
	}
}

func (m *RateLimitMiddleware) allow(key string) bool {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.rps, m.burst)}
		m.visitors[key] = v
	}
	v.lastSeen = now

	m.hits++
	if m.hits%limiterSweepEvery == 0 {
		m.sweep(now)
	}

	return v.limiter.AllowN(now, 1)
}

func (m *RateLimitMiddleware) sweep(now time.Time) {
	for k, v := range m.visitors {
		if now.Sub(v.lastSeen) > m.idleTTL {
			delete(m.visitors, k)
		}
	}
}
