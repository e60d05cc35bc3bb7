package concurrent

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every element of in using at most workers goroutines and
// preserves order. It returns the first error encountered; once an error is
// returned the context passed to the remaining calls is canceled and their
// results are left as the zero value.
// A non-positive workers value means GOMAXPROCS.
func Map[T any, R any](ctx context.Context, in []T, workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	if len(in) == 0 {
		return out, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.SetLimit(workers)

	for idx, val := range in {
		idx, val := idx, val // per-iteration copies (go directive is < 1.22)
		errGroup.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(ctx, val)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}

	return out, errGroup.Wait()
}
