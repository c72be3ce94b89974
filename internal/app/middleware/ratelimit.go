package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goCache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const MsgRateLimited = "Too many attempts. Please wait a minute and try again."

// RateLimiter is a sliding-window limiter per client IP. Idle clients are
// evicted by the cache after two windows.
type RateLimiter struct {
	clients     *goCache.Cache
	mu          sync.Mutex
	logger      *zap.Logger
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

func NewRateLimiter(logger *zap.Logger, maxRequests int, window time.Duration) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		clients:     goCache.New(2*window, 2*window),
		logger:      logger,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records one request for clientID and reports whether it fits in the
// window.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	var requests []time.Time
	if v, ok := rl.clients.Get(clientID); ok {
		requests = v.([]time.Time)
	}

	cutoff := now.Add(-rl.window)
	valid := requests[:0]
	for _, t := range requests {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.maxRequests {
		rl.clients.SetDefault(clientID, valid)
		rl.logger.Warn("Rate limit exceeded",
			zap.String("client_id", clientID),
			zap.Int("requests", len(valid)),
			zap.Int("max_requests", rl.maxRequests),
			zap.Duration("window", rl.window))
		return false
	}

	rl.clients.SetDefault(clientID, append(valid, now))
	return true
}

// RateLimitMiddleware guards credential endpoints against guessing.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.String(http.StatusTooManyRequests, MsgRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
