package sqlc_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
	"storecast.io/notifier/internal/repository/sqlc"
	"storecast.io/notifier/internal/testutil"
)

func newStore(t *testing.T) *sqlc.Store {
	t.Helper()
	s, _ := newStoreWithPool(t)
	return s
}

func newStoreWithPool(t *testing.T) (*sqlc.Store, *pgxpool.Pool) {
	t.Helper()
	pool := testutil.OpenSchemaPool(t, t.Name())
	return sqlc.NewStore(pool), pool
}

func createUser(t *testing.T, s *sqlc.Store, id, city string) {
	t.Helper()
	_, err := s.Users().Create(context.Background(), domain.User{
		ID: id, Email: id + "@example.com", Name: id, City: city, Active: true, Role: domain.RoleCustomer,
	})
	require.NoError(t, err)
}

func TestStore_PreferenceMasterColumns(t *testing.T) {
	ctx := context.Background()
	s, pool := newStoreWithPool(t)
	createUser(t, s, "u1", "Mumbai")

	p, err := s.Preferences().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)

	pref := domain.DefaultPreference("u1")
	pref.EmailOffers, pref.SmsOffers, pref.PushOffers = false, false, false
	_, err = s.Preferences().Upsert(ctx, pref)
	require.NoError(t, err)

	var offers, orders bool
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT offers, order_updates FROM preferences WHERE user_id = $1`, "u1").Scan(&offers, &orders))
	assert.False(t, offers)
	assert.True(t, orders)

	_, err = s.Preferences().Upsert(ctx, domain.DefaultPreference("ghost"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_ListByCitiesIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	createUser(t, s, "u1", "Mumbai")
	createUser(t, s, "u2", "mumbai")
	createUser(t, s, "u3", "Delhi")

	got, err := s.Users().ListByCities(ctx, []string{"MUMBAI"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].ID)

	_, err = s.Users().Create(ctx, domain.User{ID: "u9", Email: "u1@example.com", Name: "dup", Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestStore_CampaignClaimLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	createUser(t, s, "u1", "")

	c, err := s.Campaigns().Create(ctx, domain.Campaign{
		Name: "Sale", Category: domain.CategoryOffers, Channels: []domain.Channel{domain.ChannelEmail}, Status: domain.StatusDraft,
	})
	require.NoError(t, err)

	ok, err := s.Campaigns().ClaimForDispatch(ctx, c.ID, domain.Dispatchable)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Campaigns().ClaimForDispatch(ctx, c.ID, domain.Dispatchable)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Campaigns().ClaimForDispatch(ctx, c.ID+1000, domain.Dispatchable)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.DeliveryLogs().Append(ctx, domain.DeliveryLog{
		UserID: "u1", Channel: domain.ChannelEmail, Message: "Sale", Origin: domain.CampaignOrigin(c.ID),
	})
	require.NoError(t, err)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Campaigns().MarkSent(ctx, c.ID, 1, at))
	got, err := s.Campaigns().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, got.Status)
	assert.Equal(t, 1, got.RecipientsCount)
	require.NotNil(t, got.SentAt)

	require.NoError(t, s.Campaigns().Delete(ctx, c.ID))
	logs, err := s.DeliveryLogs().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestStore_OrderAmountRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	createUser(t, s, "u1", "")

	o, err := s.Orders().Create(ctx, domain.Order{
		UserID: "u1", ProductName: "Lipstick", Amount: decimal.RequireFromString("499.50"), Status: domain.OrderConfirmed,
	})
	require.NoError(t, err)
	assert.True(t, o.Amount.Equal(decimal.RequireFromString("499.5")))

	upd, err := s.Orders().UpdateStatus(ctx, o.ID, domain.OrderShipped, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderShipped, upd.Status)
}

func TestStore_ProductCatalog(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	p, err := s.Products().Create(ctx, domain.Product{
		Name: "Kajal", Description: "Smudge-proof", Price: decimal.RequireFromString("249.00"),
	})
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("249")))

	got, err := s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kajal", got.Name)

	all, err := s.Products().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.Products().Delete(ctx, p.ID))
	assert.ErrorIs(t, s.Products().Delete(ctx, p.ID), repository.ErrNotFound)
	_, err = s.Products().Get(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().Create(ctx, domain.User{ID: "u1", Email: "u1@example.com", Name: "u1", Role: domain.RoleCustomer}); err != nil {
			return err
		}
		_, err := tx.Users().Create(ctx, domain.User{ID: "u2", Email: "u1@example.com", Name: "u2", Role: domain.RoleCustomer})
		return err
	})
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.Users().Get(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
