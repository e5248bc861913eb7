package modules

import (
	"context"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storecast.io/notifier/internal/config"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/repository/cache"
)

func init() {
	_ = logger.Init("error", "json")
}

func testConfig() *config.Config {
	return &config.Config{
		Worker:    config.WorkerConfig{GeneralPoolSize: 2, DispatchPoolSize: 2},
		Scheduler: config.SchedulerConfig{Enabled: true, Interval: time.Minute, RunOnStart: true},
		Cache:     config.CacheConfig{Enabled: true, SizeBytes: 1 << 20, PreferenceTTL: time.Second},
	}
}

func newMemoryInfra(t *testing.T, cfg *config.Config) *Infrastructure {
	t.Helper()
	infra, err := NewMemoryInfrastructure(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(infra.Close)
	return infra
}

func TestNewMemoryInfrastructure(t *testing.T) {
	infra := newMemoryInfra(t, testConfig())

	assert.Nil(t, infra.DB)
	assert.NotNil(t, infra.Pools)
	assert.NotNil(t, infra.Metrics)
	assert.NotNil(t, infra.Events)
	_, cached := infra.Store.(*cache.Store)
	assert.True(t, cached, "cache.enabled wraps the store")
	require.NoError(t, infra.InitRiver(river.NewWorkers(), nil), "no database means no river client")
}

func TestNewMemoryInfrastructure_CacheDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = false
	infra := newMemoryInfra(t, cfg)

	_, cached := infra.Store.(*cache.Store)
	assert.False(t, cached)
}

func TestNewServerDeps_AllModulesContribute(t *testing.T) {
	infra := newMemoryInfra(t, testConfig())
	mods := []Module{NewNotificationModule(infra), NewOrderModule(infra), NewAdminModule(infra), nil}

	deps := NewServerDeps(infra, mods)
	assert.NotNil(t, deps.Store)
	assert.NotNil(t, deps.Users)
	assert.NotNil(t, deps.Preferences)
	assert.NotNil(t, deps.Campaigns)
	assert.NotNil(t, deps.Newsletters)
	assert.NotNil(t, deps.Audience)
	assert.NotNil(t, deps.Feed)
	assert.NotNil(t, deps.Scheduler)
	assert.NotNil(t, deps.Orders)
	assert.NotNil(t, deps.Products)
}

func TestNotificationModule_Workers(t *testing.T) {
	infra := newMemoryInfra(t, testConfig())
	mod := NewNotificationModule(infra)

	workers := river.NewWorkers()
	require.NoError(t, mod.RegisterWorkers(workers))
	assert.Error(t, mod.RegisterWorkers(workers), "sweep worker registers once")
	assert.Len(t, mod.PeriodicJobs(), 1)

	infra.Config.Scheduler.Enabled = false
	assert.Empty(t, mod.PeriodicJobs())
}

func TestInfrastructure_SweepTimeout(t *testing.T) {
	var nilInfra *Infrastructure
	assert.Equal(t, time.Minute, nilInfra.SweepTimeout())

	cfg := testConfig()
	cfg.Scheduler.Interval = 15 * time.Second
	infra := &Infrastructure{Config: cfg}
	assert.Equal(t, 15*time.Second, infra.SweepTimeout())
}

func TestJWTConfig(t *testing.T) {
	got := JWTConfig(config.SecurityConfig{
		JWTSigningKey:       "current-key",
		JWTVerificationKeys: []string{" old-key ", "", "  "},
		JWTIssuer:           "storecast-notifier",
		TokenTTL:            time.Hour,
	})

	assert.Equal(t, []byte("current-key"), got.SigningKey)
	assert.Equal(t, [][]byte{[]byte("old-key")}, got.VerificationKeys)
	assert.Equal(t, "storecast-notifier", got.Issuer)
	assert.Equal(t, time.Hour, got.ExpiresIn)
}
