package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter is an in-process token bucket per client IP, used when Redis is not configured
type IPRateLimiter struct {
	limiters  sync.Map
	rate      rate.Limit
	burst     int
	lastPrune atomic.Int64
}

const pruneInterval = time.Minute

// NewIPRateLimiter creates a new IP-based rate limiter allowing perMinute requests per minute
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  rate.Every(time.Minute / time.Duration(perMinute)),
		burst: perMinute,
	}
}

// GetLimiter returns the rate limiter for a given IP
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	limiter, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.rate, l.burst))
	return limiter.(*rate.Limiter)
}

// Limit returns the bucket size
func (l *IPRateLimiter) Limit() int {
	return l.burst
}

// Allow consumes one token for ip
func (l *IPRateLimiter) Allow(_ context.Context, ip string) (bool, int, time.Time, error) {
	now := time.Now()
	if last := l.lastPrune.Load(); now.UnixNano()-last >= int64(pruneInterval) &&
		l.lastPrune.CompareAndSwap(last, now.UnixNano()) {
		l.Prune(now)
	}

	limiter := l.GetLimiter(ip)
	allowed := limiter.AllowN(now, 1)

	tokens := limiter.TokensAt(now)
	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}

	// Time until the next token is available
	reset := now
	if tokens < 1 {
		reset = now.Add(time.Duration((1 - tokens) / float64(l.rate) * float64(time.Second)))
	}

	return allowed, remaining, reset, nil
}

// Prune drops the buckets that have refilled completely, since a full bucket
// behaves exactly like a new one. It returns the number removed.
func (l *IPRateLimiter) Prune(now time.Time) int {
	removed := 0
	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).TokensAt(now) >= float64(l.burst) {
			l.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Size returns the number of tracked clients
func (l *IPRateLimiter) Size() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
