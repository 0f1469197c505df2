package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenLimiter enforces a per-minute token budget, used to stay under the
// AI provider's token-per-minute quota.
type TokenLimiter struct {
	limiter      *rate.Limiter
	maxPerMinute int
}

// NewTokenLimiter creates a TokenLimiter allowing maxPerMinute tokens per minute.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		limiter:      rate.NewLimiter(rate.Limit(float64(maxPerMinute)/60.0), maxPerMinute),
		maxPerMinute: maxPerMinute,
	}
}

// Wait blocks until the given number of tokens is available or the context is done.
// Requests larger than the full budget are capped so they can still proceed.
func (t *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if tokens > t.maxPerMinute {
		tokens = t.maxPerMinute
	}
	return t.limiter.WaitN(ctx, tokens)
}

// GetRemaining returns the number of tokens currently available.
func (t *TokenLimiter) GetRemaining() int {
	return int(t.limiter.Tokens())
}
