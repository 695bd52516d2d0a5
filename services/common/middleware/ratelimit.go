package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/errors"
)

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// ClientLimiter hands out one token bucket per client key. Buckets idle for
// longer than idle are swept on the next access after the sweep interval.
type ClientLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewClientLimiter(every rate.Limit, burst int, idle time.Duration) *ClientLimiter {
	return &ClientLimiter{
		buckets: make(map[string]*bucket),
		every:   every,
		burst:   burst,
		idle:    idle,
		now:     time.Now,
	}
}

// Reserve takes a token for key. It returns zero when the request may go
// ahead, otherwise how long the client should wait.
func (l *ClientLimiter) Reserve(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.idle {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.idle {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now

	r := b.lim.ReserveN(now, 1)
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return d
	}
	return 0
}

// Len reports how many client buckets are being tracked.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimitMiddleware allows perMinute requests per client with the given
// burst. Signed-in callers are limited per user, everyone else per IP.
func RateLimitMiddleware(perMinute, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 100
	}
	if burst <= 0 {
		burst = max(1, perMinute/2)
	}
	limiter := NewClientLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst, 5*time.Minute)

	return func(c *gin.Context) {
		if wait := limiter.Reserve(clientKey(c)); wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			apperrors.Respond(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if id := c.GetString(UserContextKey); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}
