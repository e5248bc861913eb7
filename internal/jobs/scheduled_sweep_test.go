package jobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	"storecast.io/notifier/internal/service"
)

type fakeSweeper struct {
	calls []time.Time
	res   service.SweepResult
}

func (f *fakeSweeper) Sweep(_ context.Context, now time.Time) service.SweepResult {
	f.calls = append(f.calls, now)
	return f.res
}

func TestScheduledSweepArgsKind(t *testing.T) {
	t.Parallel()

	if got := (ScheduledSweepArgs{}).Kind(); got != "scheduled_sweep" {
		t.Fatalf("Kind() = %q, want %q", got, "scheduled_sweep")
	}
}

func TestScheduledSweepArgsInsertOpts(t *testing.T) {
	t.Parallel()

	opts := (ScheduledSweepArgs{}).InsertOpts()
	if opts.Queue != river.QueueDefault {
		t.Fatalf("Queue = %q, want %q", opts.Queue, river.QueueDefault)
	}
	if opts.MaxAttempts != 1 {
		t.Fatalf("MaxAttempts = %d, want 1", opts.MaxAttempts)
	}
	if !opts.UniqueOpts.ByArgs || !opts.UniqueOpts.ByQueue {
		t.Fatal("UniqueOpts must be by args and queue")
	}
	states := map[rivertype.JobState]bool{}
	for _, s := range opts.UniqueOpts.ByState {
		states[s] = true
	}
	for _, s := range []rivertype.JobState{rivertype.JobStateRunning, rivertype.JobStateAvailable, rivertype.JobStateScheduled} {
		if !states[s] {
			t.Fatalf("UniqueOpts.ByState missing %s", s)
		}
	}
	if states[rivertype.JobStateCompleted] {
		t.Fatal("a completed sweep must not block the next one")
	}
}

func TestScheduledSweepWorkerWork(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 1, 10, 5, 0, 0, time.UTC)
	sweeper := &fakeSweeper{res: service.SweepResult{CampaignsSent: 1, Failed: 2}}
	w := NewScheduledSweepWorker(sweeper, time.Minute)
	w.now = func() time.Time { return at }

	if err := w.Work(context.Background(), &river.Job[ScheduledSweepArgs]{}); err != nil {
		t.Fatalf("Work() error = %v, item failures must not fail the job", err)
	}
	if len(sweeper.calls) != 1 || !sweeper.calls[0].Equal(at) {
		t.Fatalf("Sweep calls = %v, want one at %s", sweeper.calls, at)
	}
	if got := w.Timeout(nil); got != time.Minute {
		t.Fatalf("Timeout() = %s, want 1m", got)
	}
}

func TestScheduledSweepWorkerWork_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewScheduledSweepWorker(&fakeSweeper{}, 0)
	if err := w.Work(ctx, nil); err == nil {
		t.Fatal("Work() error = nil, want interrupted")
	}
}

func TestScheduledSweepWorkerWork_Uninitialized(t *testing.T) {
	t.Parallel()

	t.Run("nil receiver", func(t *testing.T) {
		var w *ScheduledSweepWorker
		err := w.Work(context.Background(), nil)
		if err == nil || !strings.Contains(err.Error(), "not initialized") {
			t.Fatalf("Work() error = %v, want contains %q", err, "not initialized")
		}
	})

	t.Run("nil sweeper", func(t *testing.T) {
		w := NewScheduledSweepWorker(nil, 0)
		err := w.Work(context.Background(), nil)
		if err == nil || !strings.Contains(err.Error(), "not initialized") {
			t.Fatalf("Work() error = %v, want contains %q", err, "not initialized")
		}
	})
}

func TestRegisterWorkers(t *testing.T) {
	t.Parallel()

	workers := river.NewWorkers()
	w := NewScheduledSweepWorker(&fakeSweeper{}, 0)
	if err := RegisterWorkers(workers, w); err != nil {
		t.Fatalf("RegisterWorkers() error = %v", err)
	}
	if err := RegisterWorkers(workers, w); err == nil {
		t.Fatal("registering the same kind twice should fail")
	}
}

func TestPeriodicSweep(t *testing.T) {
	t.Parallel()

	if PeriodicSweep(time.Minute, true) == nil {
		t.Fatal("PeriodicSweep() = nil")
	}
}
