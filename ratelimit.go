package magiclink

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/templui/magiclink/store"
)

// RateLimiter counts send attempts per (email, origin IP) in a fixed decay
// window. Counters live in the shared expiring store, so the limit holds
// across instances when the store is networked.
type RateLimiter struct {
	kv     store.Store
	window time.Duration
}

func NewRateLimiter(kv store.Store, window time.Duration) *RateLimiter {
	return &RateLimiter{kv: kv, window: window}
}

// Check returns the current attempt count for the key without mutating it.
// An absent or expired counter counts as zero.
func (r *RateLimiter) Check(ctx context.Context, email, originIP string) (int64, error) {
	value, err := r.kv.Get(ctx, rateLimitKey(email, originIP))
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed rate limit counter: %w", err)
	}
	return count, nil
}

// Increment adds one attempt and extends the counter's expiry to a full
// window from now.
func (r *RateLimiter) Increment(ctx context.Context, email, originIP string) error {
	_, err := r.kv.Increment(ctx, rateLimitKey(email, originIP), r.window)
	return err
}

// Clear deletes the counter, so a user who just signed in is not penalized
// on their next send.
func (r *RateLimiter) Clear(ctx context.Context, email, originIP string) error {
	return r.kv.Delete(ctx, rateLimitKey(email, originIP))
}

func rateLimitKey(email, originIP string) string {
	return "ratelimit:" + strings.ToLower(email) + ":" + originIP
}
