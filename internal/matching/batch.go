package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spigell/scholarscout/internal/profile"
	"github.com/spigell/scholarscout/internal/scholarship"
)

const defaultWorkers = 4

// ScoreAll evaluates every record concurrently and returns the results in input order.
// A malformed record fails the whole batch.
func ScoreAll(ctx context.Context, engine *Engine, p *profile.Profile, records []*scholarship.Record, workers int) (*Results, error) {
	if engine == nil {
		engine = defaultEngine
	}
	if len(records) == 0 {
		return &Results{Items: []*Result{}}, nil
	}

	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(records) {
		workers = len(records)
	}

	jobs := make(chan int, len(records))
	for i := range records {
		jobs <- i
	}
	close(jobs)

	items := make([]*Result, len(records))
	errs := make([]error, len(records))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					errs[idx] = err
					continue
				}
				result, err := engine.Score(p, records[idx])
				if err != nil {
					errs[idx] = fmt.Errorf("scholarship #%d: %w", idx, err)
					continue
				}
				items[idx] = result
			}
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Results{Items: items}, nil
}
