package compile

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"qtermopt/circuit"
	"qtermopt/route"
)

// Job is one independent compilation.
type Job struct {
	Name    string
	Circuit *circuit.Circuit
	Model   *route.FidelityModel
}

// Batch compiles jobs concurrently, at most limit at a time (limit <= 0
// means GOMAXPROCS). Results are returned in job order. The first failure
// stops jobs that have not started yet and is returned with the job's name.
func Batch(ctx context.Context, jobs []Job, opts Options, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Compile(job.Circuit, job.Model, opts)
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
