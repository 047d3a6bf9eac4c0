package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration // Time until the next request would be admitted
}

// RateLimiter admits or rejects requests per key (client IP, host)
type RateLimiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Limiter keeps one token bucket per key. Idle buckets expire after
// idleTTL and at most maxKeys buckets are tracked; new keys beyond that
// are rejected until buckets expire.
type Limiter struct {
	buckets *gocache.Cache
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	maxKeys int
}

// NewLimiter creates a keyed limiter. maxKeys <= 0 disables the cap.
func NewLimiter(perSecond float64, burst int, idleTTL time.Duration, maxKeys int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}

	return &Limiter{
		buckets: gocache.New(idleTTL, idleTTL/2),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idleTTL: idleTTL,
		maxKeys: maxKeys,
	}
}

// NewPerMinuteLimiter admits perMinute requests per key per minute with a
// burst of the same size
func NewPerMinuteLimiter(perMinute, maxKeys int) *Limiter {
	return NewLimiter(float64(perMinute)/60.0, perMinute, 2*time.Minute, maxKeys)
}

// Allow consumes a token for key if one is available
func (l *Limiter) Allow(_ context.Context, key string) (Decision, error) {
	return l.AllowAt(key, time.Now()), nil
}

// AllowAt is Allow with an explicit clock
func (l *Limiter) AllowAt(key string, now time.Time) Decision {
	bucket, ok := l.bucket(key)
	if !ok {
		return Decision{Allowed: false, RetryAfter: l.idleTTL}
	}

	r := bucket.ReserveN(now, 1)
	if !r.OK() {
		return Decision{Allowed: false, RetryAfter: l.idleTTL}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{Allowed: false, RetryAfter: delay}
	}
	return Decision{Allowed: true}
}

// Wait blocks until key has a token or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	bucket, ok := l.bucket(key)
	if !ok {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.idleTTL):
		}
		return l.Wait(ctx, key)
	}
	return bucket.Wait(ctx)
}

// WaitWithDelay waits for a token and then for an additional delay
func (l *Limiter) WaitWithDelay(ctx context.Context, key string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, key); err != nil {
		return err
	}

	if additionalDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(additionalDelay):
		}
	}

	return nil
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	return l.buckets.ItemCount()
}

// bucket returns the bucket for key and refreshes its expiry. It reports
// false when key is new and the key cap is reached.
func (l *Limiter) bucket(key string) (*rate.Limiter, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, found := l.buckets.Get(key); found {
		b := cached.(*rate.Limiter)
		l.buckets.SetDefault(key, b)
		return b, true
	}

	if l.maxKeys > 0 && l.buckets.ItemCount() >= l.maxKeys {
		l.buckets.DeleteExpired()
		if l.buckets.ItemCount() >= l.maxKeys {
			return nil, false
		}
	}

	b := rate.NewLimiter(l.limit, l.burst)
	l.buckets.SetDefault(key, b)
	return b, true
}

// HostKey extracts the host of a URL for per-host limiting
func HostKey(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
