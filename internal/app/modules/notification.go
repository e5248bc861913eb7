package modules

import (
	"context"

	"github.com/riverqueue/river"

	"storecast.io/notifier/internal/api/handlers"
	"storecast.io/notifier/internal/jobs"
	"storecast.io/notifier/internal/notification"
	"storecast.io/notifier/internal/service"
)

// NotificationModule wires audience resolution, dispatch, scheduling and the
// feed, and hooks order events to the order notifier.
type NotificationModule struct {
	infra *Infrastructure

	resolver    *service.AudienceResolver
	dispatcher  *service.Dispatcher
	scheduler   *service.Scheduler
	campaigns   *service.CampaignService
	newsletters *service.NewsletterService
	feed        *service.FeedBuilder
}

// NewNotificationModule creates the notification module and registers its
// order event handlers on infra.Events.
func NewNotificationModule(infra *Infrastructure) *NotificationModule {
	store := infra.Store
	writer := notification.NewLogWriter(store.DeliveryLogs(), infra.Metrics)
	resolver := service.NewAudienceResolver(store.Users(), store.Preferences())

	dispatcher := service.NewDispatcher(store, resolver, writer, infra.Pools.Dispatch, infra.Metrics).
		WithTimeout(infra.Config.Worker.DispatchTimeout)

	notification.NewTriggers(notification.NewOrderNotifier(store.Preferences(), writer)).Register(infra.Events)

	return &NotificationModule{
		infra:       infra,
		resolver:    resolver,
		dispatcher:  dispatcher,
		scheduler:   service.NewScheduler(store, dispatcher, infra.Metrics),
		campaigns:   service.NewCampaignService(store, dispatcher),
		newsletters: service.NewNewsletterService(store, dispatcher),
		feed:        service.NewFeedBuilder(store.DeliveryLogs(), store.Campaigns()),
	}
}

func (m *NotificationModule) Name() string { return "notification" }

// Scheduler returns the sweep service, for callers running sweeps outside
// River.
func (m *NotificationModule) Scheduler() *service.Scheduler { return m.scheduler }

func (m *NotificationModule) ContributeServerDeps(deps *handlers.ServerDeps) {
	if deps == nil {
		return
	}
	deps.Campaigns = m.campaigns
	deps.Newsletters = m.newsletters
	deps.Audience = m.resolver
	deps.Feed = m.feed
	deps.Scheduler = m.scheduler
}

func (m *NotificationModule) RegisterWorkers(workers *river.Workers) error {
	if workers == nil || m == nil {
		return nil
	}
	return jobs.RegisterWorkers(workers, jobs.NewScheduledSweepWorker(m.scheduler, m.infra.SweepTimeout()))
}

// PeriodicJobs schedules the sweep when scheduler.enabled is set.
func (m *NotificationModule) PeriodicJobs() []*river.PeriodicJob {
	cfg := m.infra.Config.Scheduler
	if !cfg.Enabled {
		return nil
	}
	return []*river.PeriodicJob{jobs.PeriodicSweep(cfg.Interval, cfg.RunOnStart)}
}

func (m *NotificationModule) Shutdown(context.Context) error { return nil }
