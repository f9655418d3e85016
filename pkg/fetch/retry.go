package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
)

// DefaultInterval is the pause between attempts of the default
// retry policy.
const DefaultInterval = 5 * time.Second

// DefaultPolicy retries every DefaultInterval until the context is
// done.
func DefaultPolicy() backoff.BackOff {
	return backoff.NewConstantBackOff(DefaultInterval)
}

// ConstantPolicy retries at a fixed interval.  A positive
// maxAttempts bounds the total number of attempts.
func ConstantPolicy(interval time.Duration, maxAttempts int) func() backoff.BackOff {
	return func() backoff.BackOff {
		var b backoff.BackOff = backoff.NewConstantBackOff(interval)
		if maxAttempts > 0 {
			b = backoff.WithMaxRetries(b, uint64(maxAttempts-1))
		}
		return b
	}
}

type retrying struct {
	f      Fetcher
	policy func() backoff.BackOff
	l      hclog.Logger
}

// Retrying wraps a fetcher so that transient failures are retried
// according to policy.  Other failures are returned at once.
func Retrying(f Fetcher, policy func() backoff.BackOff, l hclog.Logger) Fetcher {
	if policy == nil {
		policy = DefaultPolicy
	}
	return &retrying{f: f, policy: policy, l: l}
}

func (r *retrying) Fetch(ctx context.Context, uri string) ([]byte, error) {
	var out []byte
	op := func() error {
		b, err := r.f.Fetch(ctx, uri)
		switch {
		case err == nil:
			out = b
			return nil
		case errors.Is(err, ErrTransient):
			return err
		default:
			return backoff.Permanent(err)
		}
	}
	notify := func(err error, wait time.Duration) {
		r.l.Warn("Fetch failed, will retry", "uri", uri, "error", err, "wait", wait)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(r.policy(), ctx), notify); err != nil {
		return nil, err
	}
	return out, nil
}
