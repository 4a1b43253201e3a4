// Package runner fans a batch of independent x86lite programs out across
// goroutines. Each image gets its own *mach.Machine; no state is shared
// between them, so errgroup here only ever coordinates completion and
// first-error propagation, never a handle to a single Machine.
package runner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/x86lite/x86lite/mach"
)

// Result is one machine's outcome: its instance ID, the accumulator
// value it halted with, and any fault it hit instead.
type Result struct {
	ID  uuid.UUID
	Rax int64
	Err error
}

// RunAll loads and runs one Machine per image concurrently, using opts
// for every machine, and returns one Result per image in input order.
// If ctx is canceled, in-flight machines are not interrupted mid-step
// (Step has no cancellation point, per the single-threaded/synchronous
// model); RunAll only stops launching further work.
func RunAll(ctx context.Context, images []mach.Image, opts ...mach.Option) ([]Result, error) {
	results := make([]Result, len(images))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, img := range images {
		i, img := i, img
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}

			m, err := mach.NewMachine(img, opts...)
			if err != nil {
				return fmt.Errorf("runner: machine %d: %w", i, err)
			}

			rax, runErr := m.Run()
			results[i] = Result{ID: m.ID(), Rax: rax, Err: runErr}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
