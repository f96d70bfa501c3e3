// Package retry runs an operation under a bounded retry policy.
//
// A Policy names the attempt limit, a backoff function, an optional
// predicate deciding which errors are worth retrying, and the sleep used
// between attempts. Sleep is injectable so tests can record delays instead
// of waiting for them.
//
//	err := retry.Do(ctx, retry.Policy{
//	    MaxAttempts: 3,
//	    Backoff:     retry.Exponential(1, 2, 10, time.Second),
//	}, func(ctx context.Context) error {
//	    return callModel(ctx)
//	})
//	if errors.Is(err, retry.ErrExhausted) {
//	    // every attempt failed
//	}
package retry
