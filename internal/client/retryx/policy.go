// Package retryx decides whether a failed request is worth another attempt
// and how long to wait before it. Eligibility follows the error taxonomy:
// transport failures, 5xx and 429 are transient; everything else is not.
package retryx

import (
	"context"
	"math/rand"
	"time"

	retry "github.com/sethvargo/go-retry"

	"github.com/riceguard/riceguard/internal/client/apierr"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	DefaultJitterMax   = time.Second
)

// Policy wraps one logical request in an up-to-MaxAttempts loop with
// exponential backoff: base * 2^(attempt-1) plus a uniform jitter in
// [0, JitterMax). No delay runs before the first attempt or after the last.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	JitterMax   time.Duration

	// jitterFn is a seam for tests; defaults to a uniform draw.
	jitterFn func(max time.Duration) time.Duration
}

// NewPolicy builds a Policy, substituting defaults for zero values.
func NewPolicy(maxAttempts int, baseDelay, jitterMax time.Duration) *Policy {
	p := &Policy{MaxAttempts: maxAttempts, BaseDelay: baseDelay, JitterMax: jitterMax}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.JitterMax < 0 {
		p.JitterMax = DefaultJitterMax
	}
	return p
}

// Eligible reports whether the record's kind warrants another attempt.
func (p *Policy) Eligible(rec *apierr.Record) bool {
	switch rec.Kind {
	case apierr.KindNetwork, apierr.KindServer, apierr.KindRateLimited:
		return true
	default:
		return false
	}
}

// Delay computes the backoff awaited after failed attempt n (1-based).
func (p *Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay<<(attempt-1) + p.jitter()
}

func (p *Policy) jitter() time.Duration {
	if p.JitterMax <= 0 {
		return 0
	}
	if p.jitterFn != nil {
		return p.jitterFn(p.JitterMax)
	}
	return time.Duration(rand.Int63n(int64(p.JitterMax)))
}

// Wrap marks the record as retryable when its kind is eligible, so Do will
// schedule another attempt; otherwise the record propagates immediately.
func (p *Policy) Wrap(rec *apierr.Record) error {
	if p.Eligible(rec) {
		return retry.RetryableError(rec)
	}
	return rec
}

// Do runs fn until it succeeds, returns a non-retryable error, or
// MaxAttempts is exhausted. The terminal error is the last one fn returned,
// unwrapped and otherwise untouched.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempt := 0
	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return p.Delay(attempt), false
	})
	return retry.Do(ctx, retry.WithMaxRetries(uint64(p.MaxAttempts-1), backoff), fn)
}
