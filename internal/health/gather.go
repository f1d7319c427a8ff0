package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// probe is one independent subsystem read. A fatal probe aborts the
// whole gather on failure; a recoverable one degrades to an empty
// result instead.
type probe struct {
	name  string
	fatal bool
	run   func(ctx context.Context) (int, error)
}

// gather scatters the probes concurrently and joins their counts. The
// fail-soft wrapping is applied per probe at the join point, never to
// the batch as a whole.
func gather(ctx context.Context, probes []probe) ([]int, error) {
	counts := make([]int, len(probes))
	errs := make([]error, len(probes))

	var wg sync.WaitGroup
	for i := range probes {
		wg.Add(1)
		go func(i int, p probe) {
			defer wg.Done()
			count, err := p.run(ctx)
			if err != nil {
				if p.fatal {
					errs[i] = fmt.Errorf("%s probe: %w", p.name, err)
					return
				}
				slog.Warn("Optional probe failed, substituting empty result", "probe", p.name, "error", err)
				count = 0
			}
			counts[i] = count
		}(i, probes[i])
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return counts, nil
}
