package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/notification"
	"storecast.io/notifier/internal/pkg/worker"
	"storecast.io/notifier/internal/repository"
	"storecast.io/notifier/internal/repository/memory"
)

var testNow = time.Date(2025, 1, 1, 10, 5, 0, 0, time.UTC)

type engine struct {
	store      *memory.Store
	resolver   *AudienceResolver
	writer     *notification.LogWriter
	dispatcher *Dispatcher
	scheduler  *Scheduler
	campaigns  *CampaignService
	newsletter *NewsletterService
	feed       *FeedBuilder
	orders     *notification.OrderNotifier
}

func newEngine(t *testing.T) *engine {
	return newEngineWithPool(t, nil)
}

func newEngineWithPool(t *testing.T, pool *worker.Pool) *engine {
	t.Helper()
	clock := func() time.Time { return testNow }

	st := memory.New().WithClock(clock)
	e := &engine{store: st}
	e.resolver = NewAudienceResolver(st.Users(), st.Preferences())
	e.writer = notification.NewLogWriter(st.DeliveryLogs(), nil).WithClock(clock)
	e.dispatcher = NewDispatcher(st, e.resolver, e.writer, pool, nil).WithClock(clock)
	e.scheduler = NewScheduler(st, e.dispatcher, nil)
	e.campaigns = NewCampaignService(st, e.dispatcher)
	e.newsletter = NewNewsletterService(st, e.dispatcher)
	e.feed = NewFeedBuilder(st.DeliveryLogs(), st.Campaigns())
	e.orders = notification.NewOrderNotifier(st.Preferences(), e.writer)
	return e
}

// addUser creates an active user. A nil pref leaves the user without a
// preference record.
func (e *engine) addUser(t *testing.T, id, city string, pref *domain.Preference) domain.User {
	t.Helper()
	ctx := context.Background()
	u, err := e.store.Users().Create(ctx, domain.User{
		ID:     id,
		Email:  id + "@example.com",
		Name:   "User " + id,
		City:   city,
		Active: true,
		Role:   domain.RoleCustomer,
	})
	require.NoError(t, err)
	if pref != nil {
		pref.UserID = id
		_, err = e.store.Preferences().Upsert(ctx, *pref)
		require.NoError(t, err)
	}
	return u
}

func defaults() *domain.Preference {
	p := domain.DefaultPreference("")
	return &p
}

func (e *engine) logsOf(t *testing.T, userID string) []domain.DeliveryLog {
	t.Helper()
	logs, err := e.store.DeliveryLogs().ListByUser(context.Background(), userID)
	require.NoError(t, err)
	return logs
}

type failingUsers struct {
	repository.UserRepository
}

func (failingUsers) ListActive(context.Context) ([]domain.User, error) {
	return nil, errors.New("users unavailable")
}

func (failingUsers) ListByCities(context.Context, []string) ([]domain.User, error) {
	return nil, errors.New("users unavailable")
}

// overlayStore replaces selected repositories of an inner store.
type overlayStore struct {
	repository.Store
	campaigns   repository.CampaignRepository
	newsletters repository.NewsletterRepository
}

func (s *overlayStore) Campaigns() repository.CampaignRepository {
	if s.campaigns != nil {
		return s.campaigns
	}
	return s.Store.Campaigns()
}

func (s *overlayStore) Newsletters() repository.NewsletterRepository {
	if s.newsletters != nil {
		return s.newsletters
	}
	return s.Store.Newsletters()
}

// claimFirst claims every due campaign as it lists them, standing in for a
// competing scheduler instance.
type claimFirst struct {
	repository.CampaignRepository
}

func (c *claimFirst) ListDue(ctx context.Context, now time.Time) ([]domain.Campaign, error) {
	due, err := c.CampaignRepository.ListDue(ctx, now)
	for _, d := range due {
		if _, err := c.ClaimForDispatch(ctx, d.ID, domain.Dispatchable); err != nil {
			return nil, err
		}
	}
	return due, err
}

// brokenNewsletter fails lookups of one newsletter.
type brokenNewsletter struct {
	repository.NewsletterRepository
	id int64
}

func (b *brokenNewsletter) GetNewsletter(ctx context.Context, id int64) (domain.Newsletter, error) {
	if id == b.id {
		return domain.Newsletter{}, errors.New("connection reset")
	}
	return b.NewsletterRepository.GetNewsletter(ctx, id)
}

// hookedLogs calls hook before every append with the running totals. A
// non-nil error from hook fails that append.
type hookedLogs struct {
	repository.DeliveryLogRepository
	hook func(l domain.DeliveryLog, total, perUser int) error

	mu      sync.Mutex
	total   int
	perUser map[string]int
}

func (h *hookedLogs) Append(ctx context.Context, l domain.DeliveryLog) (domain.DeliveryLog, error) {
	h.mu.Lock()
	if h.perUser == nil {
		h.perUser = make(map[string]int)
	}
	h.total++
	h.perUser[l.UserID]++
	total, perUser := h.total, h.perUser[l.UserID]
	h.mu.Unlock()

	if err := h.hook(l, total, perUser); err != nil {
		return domain.DeliveryLog{}, err
	}
	return h.DeliveryLogRepository.Append(ctx, l)
}

// dispatcherOver builds a dispatcher on e's store whose writer appends
// through logs.
func (e *engine) dispatcherOver(logs repository.DeliveryLogRepository, pool *worker.Pool) *Dispatcher {
	clock := func() time.Time { return testNow }
	w := notification.NewLogWriter(logs, nil).WithClock(clock)
	return NewDispatcher(e.store, e.resolver, w, pool, nil).WithClock(clock)
}
