package analysis

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joshharrison/critpath/internal/activity"
	"github.com/joshharrison/critpath/internal/diag"
	"github.com/joshharrison/critpath/internal/ingest"
)

// Source produces the records of one analysis.
type Source struct {
	Name string
	Read func() ([]activity.Activity, diag.List, error)
}

// FileSource reads records from path.
func FileSource(path string, opts ingest.Options) Source {
	return Source{
		Name: path,
		Read: func() ([]activity.Activity, diag.List, error) {
			return ingest.ReadFile(path, opts)
		},
	}
}

// RunBatch analyzes every source concurrently. Each run owns its graph and
// schedule. Results come back in source order. The first read failure or
// scheduling defect cancels the remaining runs and no results are returned.
func (a *Analyzer) RunBatch(ctx context.Context, sources []Source) ([]*Result, error) {
	results := make([]*Result, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log := a.log.With(zap.String("source", src.Name))

			acts, pre, err := src.Read()
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name, err)
			}

			run := &Analyzer{log: log, opts: a.opts}
			res, err := run.Run(acts, pre)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name, err)
			}
			res.Name = src.Name
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
