package resilience

import (
	"context"
	"time"
)

// RetryAttempt describes a scheduled retry. It only lives for the duration of one Execute call.
type RetryAttempt struct {
	// AttemptIndex is the 1-indexed retry number.
	AttemptIndex int
	Delay        time.Duration
	Err          error
}

// Options configures Execute. Zero values fall back to the defaults.
type Options struct {
	Policy Policy
	// Classify decides whether an error is worth retrying. Defaults to IsTransient.
	Classify func(error) bool
	// Sleep waits for d or until ctx is done. Defaults to a timer-based wait.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before each wait.
	OnRetry func(RetryAttempt)
}

func (o Options) withDefaults() Options {
	if o.Policy == (Policy{}) {
		o.Policy = DefaultPolicy()
	}
	if o.Classify == nil {
		o.Classify = IsTransient
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	return o
}

// Execute runs op, retrying transient failures according to opts.Policy.
// Permanent errors are returned on first occurrence. After the last attempt the
// final error is returned unchanged.
func Execute[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts Options) (T, error) {
	opts = opts.withDefaults()

	var (
		result T
		err    error
	)
	attempts := opts.Policy.Attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}
		if !opts.Classify(err) || attempt == attempts {
			return result, err
		}

		delay := opts.Policy.Schedule(attempt)
		if opts.OnRetry != nil {
			opts.OnRetry(RetryAttempt{AttemptIndex: attempt, Delay: delay, Err: err})
		}
		if sleepErr := opts.Sleep(ctx, delay); sleepErr != nil {
			return result, err
		}
	}
	return result, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
