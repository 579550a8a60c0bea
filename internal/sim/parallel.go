package sim

import (
	"context"
	"sync"

	"github.com/san-kum/pvsim/internal/config"
)

// Batch runs independent copies of one configuration that differ only in
// their seed, one goroutine per run.
type Batch struct {
	cfg        *config.Config
	newEngine  func(cfg *config.Config) Engine
	newMetrics func() []Metric
	numRuns    int
	seedStart  int64
}

func NewBatch(cfg *config.Config, newEngine func(*config.Config) Engine, numRuns int, seedStart int64) *Batch {
	return &Batch{cfg: cfg, newEngine: newEngine, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics sets the factory for the metrics attached to every run.
func (b *Batch) WithMetrics(f func() []Metric) *Batch {
	b.newMetrics = f
	return b
}

// Run shares src between runs, so it must not keep per-run state.
func (b *Batch) Run(ctx context.Context, src InputSource, ticks int) ([]*Result, error) {
	results := make([]*Result, b.numRuns)
	errs := make([]error, b.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < b.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *b.cfg
			cfgCopy.Seed = b.seedStart + int64(idx)

			s, err := New(&cfgCopy, b.newEngine(&cfgCopy))
			if err != nil {
				errs[idx] = err
				return
			}
			if b.newMetrics != nil {
				for _, m := range b.newMetrics() {
					s.AddMetric(m)
				}
			}
			results[idx], errs[idx] = s.Run(ctx, src, ticks)
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
