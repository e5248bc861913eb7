package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storecast.io/notifier/internal/domain"
)

func TestSweep_DuePostIsSentOnce(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	e.addUser(t, "s1", "", defaults())
	e.addUser(t, "s2", "", &domain.Preference{PushNewsletters: true})
	e.addUser(t, "s3", "", &domain.Preference{EmailOffers: true, EmailOrders: true})
	e.addUser(t, "s4", "", nil)
	e.addUser(t, "s5", "", defaults())
	require.NoError(t, e.store.Users().SetActive(ctx, "s5", false))

	n, err := e.newsletter.Create(ctx, "staff-1", "Skin Notes", "")
	require.NoError(t, err)
	for _, id := range []string{"s1", "s2", "s3", "s4", "s5"} {
		_, err := e.newsletter.Subscribe(ctx, id, n.ID, SubscriptionFlags{ReceiveEmail: true})
		require.NoError(t, err)
	}

	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	p, res, err := e.newsletter.Publish(ctx, n.ID, PublishPostInput{Title: "Retinol 101", Content: "...", ScheduledAt: &at})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, domain.StatusScheduled, p.Status)

	early := e.scheduler.Sweep(ctx, at.Add(-time.Minute))
	assert.Equal(t, SweepResult{}, early)

	got := e.scheduler.Sweep(ctx, time.Date(2025, 1, 1, 10, 5, 0, 0, time.UTC))
	assert.Equal(t, SweepResult{PostsSent: 1}, got)

	sent, err := e.store.Newsletters().GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, sent.Status)
	assert.Equal(t, 2, sent.RecipientsCount)
	require.NotNil(t, sent.SentAt)

	assert.Len(t, e.logsOf(t, "s1"), 3)
	assert.Len(t, e.logsOf(t, "s2"), 1)
	for _, id := range []string{"s3", "s4", "s5"} {
		assert.Empty(t, e.logsOf(t, id), id)
	}

	again := e.scheduler.Sweep(ctx, testNow.Add(time.Hour))
	assert.Equal(t, SweepResult{}, again)
	assert.Len(t, e.logsOf(t, "s1"), 3)
}

func TestSweep_DueCampaignsAndIsolation(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.addUser(t, "u1", "Mumbai", defaults())

	past := testNow.Add(-time.Minute)
	future := testNow.Add(time.Minute)
	due, _, err := e.campaigns.Create(ctx, CreateCampaignInput{
		Name: "Due", Category: domain.CategoryOffers, Channels: []domain.Channel{domain.ChannelEmail}, ScheduledAt: &past,
	})
	require.NoError(t, err)
	later, _, err := e.campaigns.Create(ctx, CreateCampaignInput{
		Name: "Later", Category: domain.CategoryOffers, Channels: []domain.Channel{domain.ChannelEmail}, ScheduledAt: &future,
	})
	require.NoError(t, err)

	n, err := e.newsletter.Create(ctx, "staff-1", "Flaky", "")
	require.NoError(t, err)
	broken, err := e.store.Newsletters().CreatePost(ctx, domain.NewsletterPost{
		NewsletterID: n.ID, Title: "Broken", Status: domain.StatusScheduled, ScheduledAt: &past,
	})
	require.NoError(t, err)

	// the broken post fails without stopping the sweep
	st := &overlayStore{Store: e.store, newsletters: &brokenNewsletter{NewsletterRepository: e.store.Newsletters(), id: n.ID}}
	s := NewScheduler(st, NewDispatcher(st, e.resolver, e.writer, nil, nil).WithClock(func() time.Time { return testNow }), nil)

	got := s.Sweep(ctx, testNow)
	assert.Equal(t, SweepResult{CampaignsSent: 1, Failed: 1}, got)

	c, err := e.campaigns.Get(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, c.Status)
	c, err = e.campaigns.Get(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, c.Status)

	p, err := e.store.Newsletters().GetPost(ctx, broken.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, p.Status)
}

func TestSweep_ContendedItemIsNotAFailure(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	past := testNow.Add(-time.Minute)
	c, err := e.store.Campaigns().Create(ctx, domain.Campaign{
		Name: "Taken", Category: domain.CategoryOffers, Channels: domain.AllChannels,
		Status: domain.StatusScheduled, ScheduledAt: &past,
	})
	require.NoError(t, err)

	// another instance claims between ListDue and our claim
	st := &overlayStore{Store: e.store, campaigns: &claimFirst{CampaignRepository: e.store.Campaigns()}}
	s := NewScheduler(st, NewDispatcher(st, e.resolver, e.writer, nil, nil), nil)

	got := s.Sweep(ctx, testNow)
	assert.Equal(t, SweepResult{Contended: 1}, got)

	after, err := e.store.Campaigns().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDispatching, after.Status)
}

func TestSweep_SingleFlight(t *testing.T) {
	e := newEngine(t)
	e.scheduler.mu.Lock()
	got := e.scheduler.Sweep(context.Background(), testNow)
	e.scheduler.mu.Unlock()
	assert.True(t, got.Skipped)
}
