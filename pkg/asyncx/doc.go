// Package asyncx provides small concurrency helpers with first-class context
// support.
//
// # Fan-out
//
// [AllSettled] runs a set of functions concurrently and returns one [Result]
// per function, in the original order, whether it failed or not. The health
// endpoint uses it to check every dependency at once.
//
//	results := asyncx.AllSettled(ctx,
//	    func(ctx context.Context) (string, error) { return rdb.Ping(ctx).Result() },
//	    func(ctx context.Context) (string, error) { return "ok", db.PingContext(ctx) },
//	)
//	for _, r := range results {
//	    if !r.OK() { ... }
//	}
//
// # Timeouts
//
// [WithTimeout] bounds a single call, returning context.DeadlineExceeded
// when fn does not finish in time even if fn ignores its context. [Bounded]
// turns that into a reusable wrapper:
//
//	ping := asyncx.Bounded(2*time.Second, func(ctx context.Context) (string, error) {
//	    return rdb.Ping(ctx).Result()
//	})
package asyncx
