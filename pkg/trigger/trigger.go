// Package trigger delivers "start a replay now" signals from outside the
// process. Debouncing and delivery timing belong to each Source.
package trigger

import (
	"context"
	"errors"
	"sync"
)

// ErrUnsupported indicates the source cannot run on this platform.
var ErrUnsupported = errors.New("trigger source unsupported on this platform")

// Source calls fire once per trigger until ctx ends. fire must not block.
type Source interface {
	Listen(ctx context.Context, fire func()) error
}

// SourceFunc adapts a function literal to the Source interface.
type SourceFunc func(ctx context.Context, fire func()) error

// Listen calls the underlying function.
func (f SourceFunc) Listen(ctx context.Context, fire func()) error {
	return f(ctx, fire)
}

// Merge listens on every source and returns when ctx ends or any source fails.
func Merge(sources ...Source) Source {
	return SourceFunc(func(ctx context.Context, fire func()) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var (
			wg       sync.WaitGroup
			once     sync.Once
			firstErr error
		)
		for _, src := range sources {
			wg.Add(1)
			go func(src Source) {
				defer wg.Done()
				err := src.Listen(ctx, fire)
				if err != nil && !errors.Is(err, context.Canceled) {
					once.Do(func() {
						firstErr = err
						cancel()
					})
				}
			}(src)
		}
		wg.Wait()
		if firstErr != nil {
			return firstErr
		}
		return ctx.Err()
	})
}
