package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storecast.io/notifier/internal/api/handlers"
	"storecast.io/notifier/internal/app/modules"
	"storecast.io/notifier/internal/config"
	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/pkg/logger"
)

func init() {
	_ = logger.Init("error", "json")
}

func memoryDeps(t *testing.T) handlers.ServerDeps {
	t.Helper()
	cfg := &config.Config{Worker: config.WorkerConfig{GeneralPoolSize: 2, DispatchPoolSize: 2}}
	infra, err := modules.NewMemoryInfrastructure(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(infra.Close)
	return modules.NewServerDeps(infra, []modules.Module{
		modules.NewNotificationModule(infra),
		modules.NewAdminModule(infra),
	})
}

func TestParseFixture_Default(t *testing.T) {
	fx, err := parseFixture(defaultFixture)
	require.NoError(t, err)

	assert.Len(t, fx.Users, 4)
	require.Len(t, fx.Campaigns, 1)
	assert.Equal(t, time.Hour, fx.Campaigns[0].ScheduleIn)
	require.NotNil(t, fx.Users[2].Preferences)
	require.NotNil(t, fx.Users[2].Preferences.SmsOffers)
	assert.False(t, *fx.Users[2].Preferences.SmsOffers)
}

func TestParseFixture_RejectsUnknownKeys(t *testing.T) {
	_, err := parseFixture([]byte("users:\n  - id: u1\n    emial: typo@example.com\n"))
	assert.Error(t, err)
}

func TestSeed_DefaultFixture(t *testing.T) {
	ctx := context.Background()
	deps := memoryDeps(t)
	fx, err := parseFixture(defaultFixture)
	require.NoError(t, err)

	sum, err := seed(ctx, deps, fx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, summary{Users: 4, Newsletters: 1, Subscriptions: 2, Campaigns: 1}, sum)

	vikram, err := deps.Preferences.Get(ctx, "u-vikram")
	require.NoError(t, err)
	require.NotNil(t, vikram)
	assert.True(t, vikram.Offers, "email offers still on")
	assert.False(t, vikram.SmsOffers)

	meera, err := deps.Preferences.Get(ctx, "u-meera")
	require.NoError(t, err)
	require.NotNil(t, meera)
	assert.False(t, meera.Newsletter)

	campaigns, err := deps.Campaigns.List(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, domain.StatusScheduled, campaigns[0].Status)

	// Users are skipped on a second run.
	sum, err = seed(ctx, deps, fixture{Users: fx.Users}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, summary{UsersSkipped: 4}, sum)
}

func TestSeed_UnknownCategory(t *testing.T) {
	fx := fixture{Campaigns: []fixtureCampaign{{Name: "x", Category: "Flash", Channels: []string{"EMAIL"}}}}
	_, err := seed(context.Background(), memoryDeps(t), fx, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}
