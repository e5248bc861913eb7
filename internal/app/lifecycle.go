package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storecast.io/notifier/internal/pkg/logger"
)

// Start starts background services. With a database the River client runs
// the periodic sweep; without one a local ticker does.
func (a *Application) Start(ctx context.Context) error {
	if a.DB != nil && a.DB.RiverClient != nil {
		if err := a.DB.RiverClient.Start(ctx); err != nil {
			return fmt.Errorf("start river client: %w", err)
		}
		logger.Info("River client started, jobs will now be consumed")
		return nil
	}

	if a.Scheduler != nil && a.Config != nil && a.Config.Scheduler.Enabled {
		sweepCtx, cancel := context.WithCancel(ctx)
		a.stopSweeps = cancel
		go a.sweepLoop(sweepCtx, a.Config.Scheduler.Interval, a.Config.Scheduler.RunOnStart)
		logger.Info("in-process scheduler started", zap.Duration("interval", a.Config.Scheduler.Interval))
	}
	return nil
}

func (a *Application) sweepLoop(ctx context.Context, interval time.Duration, runOnStart bool) {
	if runOnStart {
		a.Scheduler.Sweep(ctx, time.Now())
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.Scheduler.Sweep(ctx, now)
		}
	}
}

// Shutdown gracefully shuts down all application components.
func (a *Application) Shutdown() {
	shutdownCtx := context.Background()

	if a.stopSweeps != nil {
		a.stopSweeps()
	}

	if a.DB != nil && a.DB.RiverClient != nil {
		if err := a.DB.RiverClient.Stop(shutdownCtx); err != nil {
			logger.Error("failed to stop river client", zap.Error(err))
		}
		logger.Info("River client stopped")
	}

	for _, mod := range a.Modules {
		if mod == nil {
			continue
		}
		if err := mod.Shutdown(shutdownCtx); err != nil {
			logger.Warn("module shutdown returned error",
				zap.String("module", mod.Name()),
				zap.Error(err),
			)
		}
	}

	if a.Pools != nil {
		a.Pools.Shutdown()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
