package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig bounds request rates per client IP.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate; zero disables limiting.
	RequestsPerSecond float64
	// Burst is the bucket depth; defaults to RequestsPerSecond.
	Burst int
	// ClientTTL evicts idle client buckets; defaults to 10 minutes.
	ClientTTL time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a per-client token bucket. Clients are keyed by
// IP; idle entries are evicted lazily on access.
type RateLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewRateLimiter builds a limiter from cfg. Nil-safe handler when the
// rate is zero: requests pass through untouched.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RequestsPerSecond)
		if cfg.Burst < 1 {
			cfg.Burst = 1
		}
	}
	if cfg.ClientTTL <= 0 {
		cfg.ClientTTL = 10 * time.Minute
	}
	return &RateLimiter{
		cfg:     cfg,
		clients: map[string]*clientLimiter{},
	}
}

// Handler is the gin middleware.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.cfg.RequestsPerSecond <= 0 {
			c.Next()
			return
		}
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "COMMON_RATE_LIMITED",
					"message": "rate limit exceeded",
				},
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, ok := rl.clients[clientIP]
	if !ok {
		entry = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst),
		}
		rl.clients[clientIP] = entry
	}
	entry.lastSeen = now

	if len(rl.clients) > 1 {
		rl.evictIdle(now)
	}
	return entry.limiter.Allow()
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	for ip, entry := range rl.clients {
		if now.Sub(entry.lastSeen) > rl.cfg.ClientTTL {
			delete(rl.clients, ip)
		}
	}
}
