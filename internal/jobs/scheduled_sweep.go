// Package jobs defines River Queue job types for background processing.
//
// The scheduler sweep runs as a River periodic job so that only the elected
// leader enqueues it, and unique options keep a single sweep in flight
// across every process sharing the queue.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"go.uber.org/zap"

	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/service"
)

// ScheduledSweepArgs triggers one sweep of due campaigns and newsletter posts.
type ScheduledSweepArgs struct{}

// Kind returns the job kind identifier for the scheduler sweep.
func (ScheduledSweepArgs) Kind() string { return "scheduled_sweep" }

// InsertOpts rejects a new sweep while another one is still queued or running.
// A failed sweep is not retried; the next tick picks the items up again.
func (ScheduledSweepArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       river.QueueDefault,
		MaxAttempts: 1,
		UniqueOpts: river.UniqueOpts{
			ByArgs:  true,
			ByQueue: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRetryable,
				rivertype.JobStateRunning,
				rivertype.JobStateScheduled,
			},
		},
	}
}

// Sweeper runs a scheduler sweep at the given instant.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) service.SweepResult
}

// ScheduledSweepWorker executes ScheduledSweepArgs jobs.
type ScheduledSweepWorker struct {
	river.WorkerDefaults[ScheduledSweepArgs]
	sweeper Sweeper
	timeout time.Duration
	now     func() time.Time
}

// NewScheduledSweepWorker creates a sweep worker. A non-positive timeout keeps
// River's default job timeout.
func NewScheduledSweepWorker(sweeper Sweeper, timeout time.Duration) *ScheduledSweepWorker {
	return &ScheduledSweepWorker{sweeper: sweeper, timeout: timeout, now: time.Now}
}

// Timeout bounds a single sweep.
func (w *ScheduledSweepWorker) Timeout(*river.Job[ScheduledSweepArgs]) time.Duration {
	return w.timeout
}

// Work runs the sweep. Per-item failures are reported in the result and do
// not fail the job.
func (w *ScheduledSweepWorker) Work(ctx context.Context, _ *river.Job[ScheduledSweepArgs]) error {
	if w == nil || w.sweeper == nil {
		return fmt.Errorf("scheduled sweep worker is not initialized")
	}

	res := w.sweeper.Sweep(ctx, w.now())
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("scheduled sweep interrupted: %w", err)
	}
	if res.Skipped {
		return nil
	}
	logger.Info("scheduled sweep completed",
		zap.Int("campaigns_sent", res.CampaignsSent),
		zap.Int("posts_sent", res.PostsSent),
		zap.Int("failed", res.Failed),
		zap.Int("contended", res.Contended),
	)
	return nil
}

// RegisterWorkers adds the sweep worker to workers.
func RegisterWorkers(workers *river.Workers, sweep *ScheduledSweepWorker) error {
	if err := river.AddWorkerSafely(workers, sweep); err != nil {
		return fmt.Errorf("register %s worker: %w", ScheduledSweepArgs{}.Kind(), err)
	}
	return nil
}

// PeriodicSweep returns the periodic job that enqueues a sweep every interval.
func PeriodicSweep(interval time.Duration, runOnStart bool) *river.PeriodicJob {
	return river.NewPeriodicJob(
		river.PeriodicInterval(interval),
		func() (river.JobArgs, *river.InsertOpts) {
			return ScheduledSweepArgs{}, nil
		},
		&river.PeriodicJobOpts{RunOnStart: runOnStart},
	)
}
