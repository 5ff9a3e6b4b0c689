package history

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// CollectHistories runs per-file history queries over a bounded worker pool.
// Git invocations dominate analysis latency, so the fan-out is the one place
// the engine parallelizes aggressively; results are aggregated before any
// detector consumes them.
func (p *Provider) CollectHistories(ctx context.Context, paths []string, since time.Time, workers int) map[string]FileHistory {
	if workers <= 0 {
		workers = 4
	}

	var mu sync.Mutex
	results := make(map[string]FileHistory, len(paths))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, path := range paths {
		path := path
		eg.Go(func() error {
			h := FileHistory{
				LastCommit:  p.LastCommitTime(egCtx, path),
				CommitCount: p.CommitCount(egCtx, path, since),
			}
			mu.Lock()
			results[path] = h
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; failed queries are zero values.
	_ = eg.Wait()
	return results
}
