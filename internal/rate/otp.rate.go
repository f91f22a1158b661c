package rate

import (
	"context"
	"fmt"
	"time"

	"issuing-service/internal/cache"
	"issuing-service/pkg/xerrors"
)

// Limiter throttles OTP issuance per email: a cooldown between consecutive
// requests, a cap within a rolling window, and an extended block once the cap
// is hit.
type Limiter struct {
	cache       cache.Cache
	window      time.Duration
	maxInWindow int
	cooldown    time.Duration
}

func NewLimiter(c cache.Cache, window time.Duration, max int, cooldown time.Duration) *Limiter {
	return &Limiter{cache: c, window: window, maxInWindow: max, cooldown: cooldown}
}

func (l *Limiter) CanRequest(ctx context.Context, email string) error {
	blockKey := fmt.Sprintf("block:%s", email)
	lastKey := fmt.Sprintf("last:%s", email)
	countKey := fmt.Sprintf("count:%s", email)

	if ttl, _ := l.cache.GetTTL(ctx, "otp_rate", blockKey); ttl > 0 {
		return fmt.Errorf("%w: try again after %d seconds", xerrors.ErrTooManyOTPRequests, int(ttl.Seconds()))
	}

	if ttl, _ := l.cache.GetTTL(ctx, "otp_rate", lastKey); ttl > 0 {
		return fmt.Errorf("%w: wait %d seconds before requesting another code", xerrors.ErrTooManyOTPRequests, int(ttl.Seconds()))
	}

	cnt, err := l.cache.IncrWithExpire(ctx, "otp_rate", countKey, l.window)
	if err != nil {
		return err
	}

	if int(cnt) > l.maxInWindow {
		// over the cap: block for an extended period
		_ = l.cache.Set(ctx, "otp_rate", blockKey, "1", l.window*3)
		return fmt.Errorf("%w: try again after %d seconds", xerrors.ErrTooManyOTPRequests, int((l.window * 3).Seconds()))
	}

	_ = l.cache.Set(ctx, "otp_rate", lastKey, "1", l.cooldown)

	return nil
}
