package sandbox

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunAll runs requests concurrently, at most one per CPU, and returns
// results in request order.
func (s *Sandbox) RunAll(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = s.Run(gctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
