package summarize

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
)

// Pool runs a bounded set of workers that pull queued jobs from the store.
// Each claimed job runs end-to-end on a single worker; jobs share nothing but
// the read-only embedding engine and the job-status store.
type Pool struct {
	store        domain.SummaryStore
	pipeline     *Pipeline
	workers      int
	pollInterval time.Duration
	logger       zerolog.Logger
}

func NewPool(store domain.SummaryStore, pipeline *Pipeline, workers int, pollInterval time.Duration, logger zerolog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Pool{
		store:        store,
		pipeline:     pipeline,
		workers:      workers,
		pollInterval: pollInterval,
		logger:       logger.With().Str("component", "pool").Logger(),
	}
}

// Run blocks until ctx is cancelled and all workers have drained.
func (p *Pool) Run(ctx context.Context) error {
	p.logger.Info().Int("workers", p.workers).Msg("worker pool started")

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			p.workerLoop(ctx, worker)
		}(i)
	}
	wg.Wait()

	p.logger.Info().Msg("worker pool stopped")
	return ctx.Err()
}

func (p *Pool) workerLoop(ctx context.Context, worker int) {
	logger := p.logger.With().Int("worker", worker).Logger()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := p.store.ClaimQueued(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrNoJobAvailable) {
				logger.Error().Err(err).Msg("claim failed")
			}
			p.sleep(ctx)
			continue
		}

		// Run never returns an error and never panics out; a broken job
		// must not affect the others in flight.
		p.pipeline.Run(ctx, job)
	}
}

func (p *Pool) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(p.pollInterval):
	}
}
