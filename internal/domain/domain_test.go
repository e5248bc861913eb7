package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   Category
		wantOK bool
	}{
		{"Promotion Offers", CategoryOffers, true},
		{"  promotion OFFERS ", CategoryOffers, true},
		{"newsletters", CategoryNewsletters, true},
		{"Order Updates", CategoryOrderUpdates, true},
		{"Promotions", CategoryUnknown, false},
		{"", CategoryUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCategory(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOK, got.Valid())
		})
	}
}

func TestParseChannels(t *testing.T) {
	got, err := ParseChannels([]string{"push", "EMAIL", "Push"})
	require.NoError(t, err)
	assert.Equal(t, []Channel{ChannelPush, ChannelEmail}, got)

	_, err = ParseChannels([]string{"fax"})
	require.Error(t, err)
}

func TestSortChannels(t *testing.T) {
	cs := []Channel{ChannelPush, ChannelEmail, ChannelSMS}
	SortChannels(cs)
	assert.Equal(t, AllChannels, cs)
}

func TestPreference_DerivedMasters(t *testing.T) {
	var p Preference
	assert.False(t, p.Offers())
	assert.False(t, p.Newsletter())
	assert.False(t, p.OrderUpdates())

	p.SmsOffers = true
	p.PushOrders = true
	assert.True(t, p.Offers())
	assert.False(t, p.Newsletter())
	assert.True(t, p.OrderUpdates())
	assert.True(t, p.Master(CategoryOrderUpdates))
	assert.False(t, p.Master(CategoryUnknown))

	p.SmsOffers = false
	assert.False(t, p.Offers(), "master follows children when they turn off")
}

func TestPreference_Allows(t *testing.T) {
	p := Preference{PushOffers: true, EmailNewsletters: true, SmsOrders: true}

	tests := []struct {
		cat  Category
		ch   Channel
		want bool
	}{
		{CategoryOffers, ChannelPush, true},
		{CategoryOffers, ChannelEmail, false},
		{CategoryNewsletters, ChannelEmail, true},
		{CategoryNewsletters, ChannelPush, false},
		{CategoryOrderUpdates, ChannelSMS, true},
		{CategoryUnknown, ChannelPush, false},
		{CategoryOffers, Channel("FAX"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Allows(tt.cat, tt.ch), "%s/%s", tt.cat, tt.ch)
	}

	assert.Equal(t, []Channel{ChannelPush},
		p.Permitted(CategoryOffers, []Channel{ChannelEmail, ChannelPush, ChannelPush}))
	assert.Empty(t, DefaultPreference("u").Permitted(CategoryUnknown, AllChannels))
}

func TestPreferenceUpdate_Apply(t *testing.T) {
	off := false
	on := true
	p := DefaultPreference("u1")

	got := PreferenceUpdate{EmailOffers: &off, SmsOffers: &off, PushOffers: &off, SmsOrders: &on}.Apply(p)
	assert.False(t, got.Offers())
	assert.True(t, got.Newsletter())
	assert.True(t, got.SmsOrders)
	assert.Equal(t, "u1", got.UserID)
}

func TestOrigin_Validate(t *testing.T) {
	require.NoError(t, CampaignOrigin(3).Validate())
	require.NoError(t, OrderOrigin().Validate())
	require.NoError(t, NewsletterPostOrigin(9).Validate())

	for _, o := range []Origin{
		CampaignOrigin(0),
		NewsletterPostOrigin(-1),
		{Kind: OriginOrder, RefID: 4},
		{Kind: "legacy"},
	} {
		err := o.Validate()
		assert.True(t, errors.Is(err, ErrInvalidOrigin), "origin %v", o)
	}

	assert.Equal(t, "campaign:3", CampaignOrigin(3).String())
	assert.Equal(t, "order", OrderOrigin().String())
}

func TestOrderEventPayload_RoundTrip(t *testing.T) {
	payload := OrderEventPayload{OrderID: 5, UserID: "u1", ProductName: "Lipstick", Amount: "499.00", Status: OrderConfirmed}
	data, err := payload.ToJSON()
	require.NoError(t, err)

	got, err := DecodeOrderEvent(&DomainEvent{EventType: EventOrderPlaced, Payload: data})
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestEventDispatcher_BestEffort(t *testing.T) {
	d := NewEventDispatcher()
	var calls []string
	d.Register(EventOrderPlaced, func(ctx context.Context, e *DomainEvent) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Register(EventOrderPlaced, func(ctx context.Context, e *DomainEvent) error {
		calls = append(calls, "second")
		return nil
	})

	err := d.Dispatch(context.Background(), &DomainEvent{EventID: "e1", EventType: EventOrderPlaced})
	require.Error(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)

	require.NoError(t, d.Dispatch(context.Background(), &DomainEvent{EventType: EventOrderStatusChanged}))
}

func TestEventDispatcher_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewEventDispatcher()
	var calls []string
	d.Register(EventOrderStatusChanged, func(ctx context.Context, e *DomainEvent) error {
		calls = append(calls, "first")
		panic("nil order in payload")
	})
	d.Register(EventOrderStatusChanged, func(ctx context.Context, e *DomainEvent) error {
		calls = append(calls, "second")
		return errors.New("feed write failed")
	})
	d.Register(EventOrderStatusChanged, func(ctx context.Context, e *DomainEvent) error {
		calls = append(calls, "third")
		return nil
	})

	var err error
	require.NotPanics(t, func() {
		err = d.Dispatch(context.Background(), &DomainEvent{
			EventID: "e2", EventType: EventOrderStatusChanged, AggregateType: "order", AggregateID: "42",
		})
	})
	assert.Equal(t, []string{"first", "second", "third"}, calls)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler 0 for ORDER_STATUS_CHANGED: panic:")
	assert.Contains(t, err.Error(), "handler 1 for ORDER_STATUS_CHANGED: feed write failed")
}

func TestParseOrderStatus(t *testing.T) {
	st, ok := ParseOrderStatus("SHIPPED")
	assert.True(t, ok)
	assert.Equal(t, OrderShipped, st)

	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)
}
