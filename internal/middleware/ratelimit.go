package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sjperalta/backoffice-api/internal/metrics"
	"github.com/sjperalta/backoffice-api/internal/response"
)

const rateLimitCacheSize = 10000

type window struct {
	start time.Time
	count int
}

// RateLimiter counts requests per client in fixed windows
type RateLimiter struct {
	mu         sync.Mutex
	windows    *expirable.LRU[string, *window]
	limit      int
	loginLimit int
	period     time.Duration
	now        func() time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per period, and
// loginLimit per period on login paths.
func NewRateLimiter(limit, loginLimit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		windows:    expirable.NewLRU[string, *window](rateLimitCacheSize, nil, period),
		limit:      limit,
		loginLimit: loginLimit,
		period:     period,
		now:        time.Now,
	}
}

// Allow counts one request for key and reports whether it fits in the window
func (rl *RateLimiter) Allow(key string, limit int) (allowed bool, remaining int, reset time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows.Get(key)
	if !ok || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows.Add(key, w)
	}
	reset = w.start.Add(rl.period)
	if w.count >= limit {
		return false, 0, reset
	}
	w.count++
	return true, limit - w.count, reset
}

// Middleware rejects clients that exceed their window with 429. Clients are
// keyed by gin's ClientIP, which only honours forwarding headers from the
// engine's trusted proxies.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, limit, bucket := c.ClientIP(), rl.limit, "general"
		if strings.Contains(c.Request.URL.Path, "/login") {
			key, limit, bucket = key+":login", rl.loginLimit, "login"
		}

		allowed, remaining, reset := rl.Allow(key, limit)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			metrics.IncRateLimited(bucket)
			response.Abort(c, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		c.Next()
	}
}
