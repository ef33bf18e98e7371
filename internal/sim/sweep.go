package sim

import (
	"context"
	"sync"

	"nefsim/internal/nef"
)

// Sweep runs the same network under consecutive seeds in parallel, one
// simulator per goroutine. The metrics factory is called per run so metric
// state is never shared.
func Sweep(ctx context.Context, net *nef.Network, cfg nef.Config, runs int, metrics func() []nef.Metric) ([]*nef.Result, error) {
	results := make([]*nef.Result, runs)
	errs := make([]error, runs)

	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = cfg.Seed + int64(idx)

			s := New(net)
			if metrics != nil {
				for _, m := range metrics() {
					s.AddMetric(m)
				}
			}
			results[idx], errs[idx] = s.Run(ctx, cfgCopy)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
