// Package app is the composition root. Bootstrap stays orchestration-only;
// the wiring itself lives in modules.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/riverqueue/river"

	"storecast.io/notifier/internal/api/handlers"
	"storecast.io/notifier/internal/app/modules"
	"storecast.io/notifier/internal/config"
	"storecast.io/notifier/internal/infrastructure"
	"storecast.io/notifier/internal/pkg/worker"
	"storecast.io/notifier/internal/service"
)

// Application holds composed application dependencies.
type Application struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *infrastructure.DatabaseClients
	Pools     *worker.Pools
	Modules   []modules.Module
	Scheduler *service.Scheduler

	stopSweeps context.CancelFunc
}

// Bootstrap initializes all dependencies against PostgreSQL.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Application, error) {
	infra, err := modules.NewInfrastructure(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init infrastructure: %w", err)
	}
	return compose(infra)
}

// BootstrapInMemory initializes all dependencies over the in-memory store.
// Scheduled items are swept by an in-process ticker instead of River.
func BootstrapInMemory(ctx context.Context, cfg *config.Config) (*Application, error) {
	infra, err := modules.NewMemoryInfrastructure(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init infrastructure: %w", err)
	}
	return compose(infra)
}

func compose(infra *modules.Infrastructure) (*Application, error) {
	notifications := modules.NewNotificationModule(infra)
	allModules := []modules.Module{
		notifications,
		modules.NewOrderModule(infra),
		modules.NewAdminModule(infra),
	}

	workers := river.NewWorkers()
	var periodic []*river.PeriodicJob
	for _, mod := range allModules {
		if err := mod.RegisterWorkers(workers); err != nil {
			infra.Close()
			return nil, fmt.Errorf("register %s workers: %w", mod.Name(), err)
		}
		if pj, ok := mod.(modules.PeriodicJobContributor); ok {
			periodic = append(periodic, pj.PeriodicJobs()...)
		}
	}
	if err := infra.InitRiver(workers, periodic); err != nil {
		infra.Close()
		return nil, fmt.Errorf("init river workers: %w", err)
	}

	cfg := infra.Config
	server := handlers.NewServer(modules.NewServerDeps(infra, allModules))

	return &Application{
		Config:    cfg,
		Router:    newRouter(cfg, server, modules.JWTConfig(cfg.Security), infra.Metrics.Handler()),
		DB:        infra.DB,
		Pools:     infra.Pools,
		Modules:   allModules,
		Scheduler: notifications.Scheduler(),
	}, nil
}
