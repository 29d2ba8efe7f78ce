package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter tracks one token bucket per client key. Each bucket holds
// `max` tokens and refills at max per window, so a client gets at most
// `max` requests per window with bursts up to the full allowance.
type Limiter struct {
	max      int
	window   time.Duration
	interval time.Duration

	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// Decision carries everything a handler needs to answer the request,
// including the values for the rate-limit response headers.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:      max,
		window:   window,
		interval: window / time.Duration(max),
		visitors: map[string]*visitor{},
	}
}

// StartEviction drops buckets that have been idle long enough to be
// full again, so the visitor map stays bounded.
func (l *Limiter) StartEviction(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(l.window)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.evict()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (l *Limiter) evict() {
	cutoff := time.Now().Add(-l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
		}
	}
}

func (l *Limiter) Take(key string) Decision {
	now := time.Now()

	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(rate.Every(l.interval), l.max)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	allowed := v.bucket.Allow()

	tokens := v.bucket.Tokens()
	if tokens < 0 {
		tokens = 0
	}
	remaining := int(tokens)
	missing := float64(l.max) - tokens
	reset := now.Add(time.Duration(missing * float64(l.interval)))

	d := Decision{
		Allowed:   allowed,
		Limit:     l.max,
		Remaining: remaining,
		Reset:     reset,
	}
	if !allowed {
		d.RetryAfter = time.Duration(math.Ceil(l.interval.Seconds())) * time.Second
		if d.RetryAfter < time.Second {
			d.RetryAfter = time.Second
		}
	}
	return d
}
