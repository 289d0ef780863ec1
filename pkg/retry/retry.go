// Package retry runs idempotent reads with bounded exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	goretry "github.com/sethvargo/go-retry"
)

const (
	defaultAttempts  = 3
	defaultBaseDelay = 100 * time.Millisecond
	maxDelay         = 2 * time.Second
)

// Policy bounds how many times a read is attempted.
type Policy struct {
	MaxAttempts uint64
	BaseDelay   time.Duration
}

// FromConfig converts the env-driven settings into a Policy.
func FromConfig(cfg config.RetryConfig) Policy {
	return Policy{MaxAttempts: cfg.MaxAttempts, BaseDelay: cfg.BaseDelay}
}

// Do invokes fn until it succeeds, returns a non-transient error, or the
// attempts run out. Only dependency failures are retried; never wrap a
// non-idempotent write with this.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = defaultAttempts
	}
	base := p.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}

	backoff := goretry.NewExponential(base)
	backoff = goretry.WithCappedDuration(maxDelay, backoff)
	backoff = goretry.WithMaxRetries(attempts-1, backoff)

	return goretry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if Transient(err) {
			return goretry.RetryableError(err)
		}
		return err
	})
}

// Transient reports whether err is worth another attempt.
func Transient(err error) bool {
	return pkgerrors.IsCode(err, pkgerrors.CodeDependency)
}
