package modules

import (
	"context"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"storecast.io/notifier/internal/config"
	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/infrastructure"
	"storecast.io/notifier/internal/metrics"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/pkg/worker"
	"storecast.io/notifier/internal/repository"
	"storecast.io/notifier/internal/repository/cache"
	"storecast.io/notifier/internal/repository/memory"
	"storecast.io/notifier/internal/repository/sqlc"
)

// Infrastructure holds shared cross-cutting dependencies for all modules.
// It is a provider, not a Module.
type Infrastructure struct {
	Config  *config.Config
	DB      *infrastructure.DatabaseClients // nil for the in-memory store
	Pools   *worker.Pools
	Store   repository.Store
	Metrics *metrics.Metrics
	Events  *domain.EventDispatcher
}

// NewInfrastructure connects to PostgreSQL, applies migrations when
// database.auto_migrate is set, and builds the shared store and pools.
func NewInfrastructure(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	db, err := infrastructure.NewDatabaseClients(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := infrastructure.MigrateUp(cfg.Database.DSN()); err != nil {
			db.Close()
			return nil, fmt.Errorf("auto-migrate schema: %w", err)
		}
		if err := db.MigrateRiver(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("auto-migrate river: %w", err)
		}
	}

	infra, err := newInfrastructure(ctx, cfg, sqlc.NewStore(db.Pool))
	if err != nil {
		db.Close()
		return nil, err
	}
	infra.DB = db
	return infra, nil
}

// NewMemoryInfrastructure builds the shared dependencies over the in-memory
// store. Nothing survives a restart and no River client is created.
func NewMemoryInfrastructure(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	logger.Warn("using in-memory store; data is lost on restart")
	return newInfrastructure(ctx, cfg, memory.New())
}

func newInfrastructure(ctx context.Context, cfg *config.Config, store repository.Store) (*Infrastructure, error) {
	pools, err := worker.NewPools(ctx, worker.PoolConfig{
		GeneralPoolSize:  cfg.Worker.GeneralPoolSize,
		DispatchPoolSize: cfg.Worker.DispatchPoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("init worker pools: %w", err)
	}

	if cfg.Cache.Enabled {
		store = cache.WrapStore(store, cache.Config{
			SizeBytes: cfg.Cache.SizeBytes,
			TTL:       cfg.Cache.PreferenceTTL,
		})
		logger.Info("preference cache enabled",
			zap.Int("size_bytes", cfg.Cache.SizeBytes),
			zap.Duration("ttl", cfg.Cache.PreferenceTTL),
		)
	}

	return &Infrastructure{
		Config:  cfg,
		Pools:   pools,
		Store:   store,
		Metrics: metrics.New(),
		Events:  domain.NewEventDispatcher(),
	}, nil
}

// SweepTimeout bounds a single scheduler sweep.
func (i *Infrastructure) SweepTimeout() time.Duration {
	if i == nil || i.Config == nil || i.Config.Scheduler.Interval <= 0 {
		return time.Minute
	}
	return i.Config.Scheduler.Interval
}

// InitRiver initializes the River client on top of a prepared worker
// registry. It is a no-op without a database.
func (i *Infrastructure) InitRiver(workers *river.Workers, periodic []*river.PeriodicJob) error {
	if i == nil || i.Config == nil {
		return fmt.Errorf("infrastructure is not initialized")
	}
	if i.DB == nil {
		return nil
	}
	if err := i.DB.InitRiverClient(workers, periodic, i.Config.River); err != nil {
		return fmt.Errorf("init river: %w", err)
	}
	return nil
}

// Close releases infra resources in reverse dependency order.
func (i *Infrastructure) Close() {
	if i == nil {
		return
	}
	if i.Pools != nil {
		i.Pools.Shutdown()
	}
	if i.DB != nil {
		i.DB.Close()
	}
}
