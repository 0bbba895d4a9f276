package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/noah-isme/planify-api/internal/service"
	appErrors "github.com/noah-isme/planify-api/pkg/errors"
	"github.com/noah-isme/planify-api/pkg/response"
)

const limiterIdleTTL = 10 * time.Minute

// RateLimitConfig tunes the per-client token bucket.
type RateLimitConfig struct {
	PerMinute int
	Burst     int
	MaxIPs    int
}

// RateLimiter keeps one token bucket per client IP; idle buckets expire from an LRU.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	metrics  *service.MetricsService
}

// NewRateLimiter returns nil when PerMinute is not positive, which disables limiting.
func NewRateLimiter(cfg RateLimitConfig, metrics *service.MetricsService) *RateLimiter {
	if cfg.PerMinute <= 0 {
		return nil
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(math.Max(1, float64(cfg.PerMinute)/10))
	}
	if cfg.MaxIPs <= 0 {
		cfg.MaxIPs = 4096
	}
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](cfg.MaxIPs, nil, limiterIdleTTL),
		limit:    rate.Limit(float64(cfg.PerMinute) / 60.0),
		burst:    cfg.Burst,
		metrics:  metrics,
	}
}

// Allow consumes one token for key.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters.Add(key, limiter)
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// Middleware rejects requests over budget with 429 and a Retry-After hint.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		if !l.Allow(c.ClientIP()) {
			retry := int(math.Ceil(1 / float64(l.limit)))
			c.Header("Retry-After", strconv.Itoa(retry))
			l.metrics.RecordRateLimited(c.FullPath())
			response.Error(c, appErrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
