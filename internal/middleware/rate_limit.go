package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cartonization-service/internal/domain/dto"
	"github.com/guttosm/cartonization-service/internal/i18n"
	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter is a per-client token bucket limiter. A client may send
// requestsPerWindow requests per window, with bursts up to that size.
type RateLimiter struct {
	visitors *xsync.Map[string, *visitor]
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
	stopCh   chan struct{}
}

// NewRateLimiter creates a limiter and starts its idle-visitor sweeper.
func NewRateLimiter(requestsPerWindow int, window time.Duration) *RateLimiter {
	if requestsPerWindow <= 0 {
		requestsPerWindow = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		visitors: xsync.NewMap[string, *visitor](),
		limit:    rate.Limit(float64(requestsPerWindow) / window.Seconds()),
		burst:    requestsPerWindow,
		idleTTL:  2 * window,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) visitorFor(key string) *visitor {
	v, _ := rl.visitors.LoadOrCompute(key, func() (*visitor, bool) {
		return &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}, false
	})
	v.lastSeen.Store(rl.now().UnixNano())
	return v
}

// Allow consumes a token for key and reports whether the request may proceed,
// how many tokens remain and how long to wait when it may not.
func (rl *RateLimiter) Allow(key string) (bool, int, time.Duration) {
	now := rl.now()
	lim := rl.visitorFor(key).limiter
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 0, time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, 0, delay
	}
	return true, int(math.Max(0, math.Floor(lim.TokensAt(now)))), 0
}

// RateLimit limits requests per client IP.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, retryAfter := rl.Allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			message := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.ErrCodeRateLimit, message).WithRequestID(GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stopCh:
			return
		}
	}
}

// evictIdle drops clients not seen for idleTTL. Their buckets would be full
// again by now, so forgetting them changes nothing.
func (rl *RateLimiter) evictIdle() {
	cutoff := rl.now().Add(-rl.idleTTL).UnixNano()
	rl.visitors.Range(func(key string, v *visitor) bool {
		if v.lastSeen.Load() < cutoff {
			rl.visitors.Delete(key)
		}
		return true
	})
}

// Visitors returns the number of tracked clients.
func (rl *RateLimiter) Visitors() int {
	return rl.visitors.Size()
}

// Stop halts the sweeper.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}
