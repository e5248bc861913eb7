package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/notification"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/repository/memory"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*memory.Store, *OrderUseCase) {
	t.Helper()
	clock := func() time.Time { return fixedNow }
	st := memory.New().WithClock(clock)
	_, err := st.Users().Create(context.Background(), domain.User{ID: "u1", Email: "u1@example.com", Active: true})
	require.NoError(t, err)

	writer := notification.NewLogWriter(st.DeliveryLogs(), nil).WithClock(clock)
	events := domain.NewEventDispatcher()
	notification.NewTriggers(notification.NewOrderNotifier(st.Preferences(), writer)).Register(events)
	return st, NewOrderUseCase(st, events).WithClock(clock)
}

func TestPlaceOrder_NotifiesOnEveryChannelWithoutPreference(t *testing.T) {
	ctx := context.Background()
	st, uc := setup(t)

	o, err := uc.PlaceOrder(ctx, PlaceOrderInput{UserID: "u1", ProductName: " Kajal ", Amount: decimal.RequireFromString("249.5")})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, o.Status)
	assert.Equal(t, "Kajal", o.ProductName)
	assert.Equal(t, "249.50", o.Amount.StringFixed(2))

	logs, err := st.DeliveryLogs().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	for _, l := range logs {
		assert.Equal(t, domain.OrderOrigin(), l.Origin)
		assert.Equal(t, "Order Placed: Kajal", l.Message)
		assert.Equal(t, "Your order for Kajal has been placed successfully. Amount: 249.50", l.Content)
	}
}

func TestPlaceOrder_ByProductUsesCatalogPrice(t *testing.T) {
	ctx := context.Background()
	st, uc := setup(t)
	p, err := st.Products().Create(ctx, domain.Product{Name: "Rose Serum", Price: decimal.RequireFromString("1299")})
	require.NoError(t, err)

	o, err := uc.PlaceOrder(ctx, PlaceOrderInput{
		UserID: "u1", ProductID: p.ID, ProductName: "Cheap Serum", Amount: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rose Serum", o.ProductName)
	assert.Equal(t, "1299.00", o.Amount.StringFixed(2))

	// deleting the product keeps the order's copy
	require.NoError(t, st.Products().Delete(ctx, p.ID))
	got, err := uc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rose Serum", got.ProductName)

	logs, err := st.DeliveryLogs().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "Order Placed: Rose Serum", logs[0].Message)

	_, err = uc.PlaceOrder(ctx, PlaceOrderInput{UserID: "u1", ProductID: p.ID})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProductNotFound), "got %v", err)
	_, err = uc.PlaceOrder(ctx, PlaceOrderInput{UserID: "ghost", ProductID: p.ID})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserNotFound), "got %v", err)
}

func TestUpdateStatus_RespectsOrderPreference(t *testing.T) {
	ctx := context.Background()
	st, uc := setup(t)
	_, err := st.Preferences().Upsert(ctx, domain.Preference{UserID: "u1", SmsOrders: true, EmailOffers: true})
	require.NoError(t, err)

	o, err := uc.PlaceOrder(ctx, PlaceOrderInput{UserID: "u1", ProductName: "Serum", Amount: decimal.NewFromInt(900)})
	require.NoError(t, err)

	shipped, err := uc.UpdateStatus(ctx, o.ID, domain.OrderShipped, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderShipped, shipped.Status)

	logs, err := st.DeliveryLogs().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.ChannelSMS, logs[1].Channel)
	assert.Equal(t, "Order Update", logs[1].Message)
	assert.Equal(t, "Your order is now SHIPPED", logs[1].Content)
}

func TestUpdateStatus_MasterOffSendsNothing(t *testing.T) {
	ctx := context.Background()
	st, uc := setup(t)
	_, err := st.Preferences().Upsert(ctx, domain.Preference{UserID: "u1", EmailOffers: true})
	require.NoError(t, err)

	o, err := uc.PlaceOrder(ctx, PlaceOrderInput{UserID: "u1", ProductName: "Toner", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, o.ID, domain.OrderDelivered, "staff-1")
	require.NoError(t, err)

	logs, err := st.DeliveryLogs().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestOrderUseCase_Errors(t *testing.T) {
	ctx := context.Background()
	st, uc := setup(t)

	_, err := uc.PlaceOrder(ctx, PlaceOrderInput{UserID: "ghost", ProductName: "x", Amount: decimal.NewFromInt(1)})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserNotFound), "got %v", err)
	_, err = uc.PlaceOrder(ctx, PlaceOrderInput{UserID: "u1", ProductName: "", Amount: decimal.NewFromInt(1)})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRequest))
	_, err = uc.PlaceOrder(ctx, PlaceOrderInput{UserID: "u1", ProductName: "x", Amount: decimal.NewFromInt(-1)})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidAmount))

	_, err = uc.UpdateStatus(ctx, 404, domain.OrderShipped, "staff-1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeOrderNotFound))
	_, err = uc.UpdateStatus(ctx, 1, "LOST", "staff-1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRequest))

	orders, err := st.Orders().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderUseCase_WithoutDispatcher(t *testing.T) {
	ctx := context.Background()
	st, _ := setup(t)
	uc := NewOrderUseCase(st, nil)

	o, err := uc.PlaceOrder(ctx, PlaceOrderInput{UserID: "u1", ProductName: "Mask", Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)

	mine, err := uc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, o.ID, mine[0].ID)

	logs, err := st.DeliveryLogs().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, logs)
}
