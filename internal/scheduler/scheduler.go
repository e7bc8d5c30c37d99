package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Job is the work a Runner repeats.
type Job func(ctx context.Context) error

// Runner repeats one job at a fixed interval until stopped. A tick that
// arrives while the previous run is still going is skipped.
type Runner struct {
	name     string
	interval time.Duration
	job      Job
	logger   zerolog.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner initializes a Runner. Nothing runs until Start is called.
func NewRunner(name string, interval time.Duration, job Job, logger zerolog.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger.With().Str("job", name).Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins ticking. The first run happens one interval after Start.
func (r *Runner) Start() {
	ticker := time.NewTicker(r.interval)
	r.logger.Info().Dur("interval", r.interval).Msg("scheduler started")

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.wg.Add(1)
				go func() {
					defer r.wg.Done()
					r.RunOnce(r.ctx)
				}()
			}
		}
	}()
}

// Stop cancels the context passed to running jobs and waits for them.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
	r.logger.Info().Msg("scheduler stopped")
}

// RunOnce runs the job now unless a run is already in progress, and reports
// whether it ran.
func (r *Runner) RunOnce(ctx context.Context) bool {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.logger.Warn().Msg("previous run still in progress, skipping")
		return false
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	start := time.Now()
	if err := r.job(ctx); err != nil {
		r.logger.Error().Err(err).Dur("took", time.Since(start)).Msg("scheduled run failed")
		return true
	}
	r.logger.Debug().Dur("took", time.Since(start)).Msg("scheduled run finished")
	return true
}
