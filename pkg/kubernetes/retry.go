package kubernetes

import (
	"context"
	"errors"
	"time"

	"k8s.io/klog/v2"

	"github.com/bdastur/k8s-debugger/pkg/config"
)

// RetryPolicy drives retries of transient cluster failures. It is an injected
// value rather than ad-hoc retry logic so that tests and callers can tune or
// disable it.
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first failure.
	MaxRetries int
	// BaseDelay is the backoff before the first retry, doubled on each subsequent retry.
	BaseDelay time.Duration
	// Classify reports whether an error is transient and worth retrying.
	Classify func(error) bool
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  250 * time.Millisecond,
		Classify:   IsTransient,
	}
}

// RetryPolicyFromConfig builds a RetryPolicy from the static configuration.
func RetryPolicyFromConfig(cfg *config.StaticConfig) RetryPolicy {
	return RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay.Duration(),
		Classify:   IsTransient,
	}
}

// Do runs fn, retrying transient failures up to MaxRetries times with
// exponential backoff. Non-transient failures are returned immediately.
// Context expiry is mapped to ErrDeadlineExceeded so callers can distinguish
// a blown call budget from an upstream failure.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	classify := p.Classify
	if classify == nil {
		classify = IsTransient
	}
	delay := p.BaseDelay
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return ErrDeadlineExceeded
			}
			return ctxErr
		}
		if !classify(err) || attempt >= p.MaxRetries {
			return err
		}
		klog.V(5).Infof("retrying %s after transient failure (attempt %d/%d): %v", op, attempt+1, p.MaxRetries, err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrDeadlineExceeded
			}
			return ctx.Err()
		}
		delay *= 2
	}
}

// doRetry runs a value-returning operation under the policy, classifying the
// final error.
func doRetry[T any](ctx context.Context, p RetryPolicy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, op, func(ctx context.Context) error {
		var innerErr error
		result, innerErr = fn(ctx)
		return innerErr
	})
	if err != nil {
		var zero T
		if errors.Is(err, ErrDeadlineExceeded) || errors.Is(err, context.Canceled) {
			return zero, err
		}
		return zero, ClassifyError(op, err)
	}
	return result, nil
}
