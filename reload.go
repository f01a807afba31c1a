package visitordash

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eringen/visitordash/dataset"
)

const reloadJobName = "dataset-reload"

// ReloadFunc observes the outcome of each reload.
type ReloadFunc func(snap *dataset.Snapshot, err error)

// ReloadScheduler periodically re-reads the dataset sources. A failed reload
// keeps the previous snapshot.
type ReloadScheduler struct {
	scheduler gocron.Scheduler
	dataset   *dataset.Dataset
	onReload  ReloadFunc
	logger    zerolog.Logger
	timeout   time.Duration
	stopOnce  sync.Once
	stopErr   error
}

// NewReloadScheduler registers a singleton-mode duration job that reloads ds
// every interval.
func NewReloadScheduler(ds *dataset.Dataset, interval time.Duration, logger zerolog.Logger, onReload ReloadFunc) (*ReloadScheduler, error) {
	logger = logger.With().Str("component", "reload").Dur("interval", interval).Logger()
	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error().
						Str("job_id", jobID.String()).
						Str("job_name", jobName).
						Interface("panic", recoverData).
						Msg("reload job panicked")
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}

	r := &ReloadScheduler{
		scheduler: sched,
		dataset:   ds,
		onReload:  onReload,
		logger:    logger,
		timeout:   interval,
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.Run),
		gocron.WithName(reloadJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}
	return r, nil
}

// Run performs one reload.
func (r *ReloadScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	snap, err := r.dataset.Reload(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("dataset reload failed; keeping previous snapshot")
	} else {
		r.logger.Info().
			Int("records", len(snap.Records)).
			Uint64("generation", snap.Generation).
			Dur("took", time.Since(start)).
			Msg("dataset reloaded")
	}
	if r.onReload != nil {
		r.onReload(snap, err)
	}
}

// Start begins running the reload job.
func (r *ReloadScheduler) Start() {
	r.logger.Info().Msg("reload scheduler starting")
	r.scheduler.Start()
}

// Stop shuts down the scheduler and waits for a running reload to finish.
func (r *ReloadScheduler) Stop() error {
	r.stopOnce.Do(func() {
		r.logger.Info().Msg("reload scheduler stopping")
		r.stopErr = r.scheduler.Shutdown()
	})
	return r.stopErr
}
