// Package memory is an in-process implementation of repository.Store.
//
// It is safe for concurrent use. WithinTx serializes transactions and restores
// a snapshot when fn fails; writes made outside a transaction while one is
// running are lost on rollback.
package memory

import (
	"context"
	"sync"
	"time"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
)

type state struct {
	users         map[string]domain.User
	preferences   map[string]domain.Preference
	campaigns     map[int64]domain.Campaign
	newsletters   map[int64]domain.Newsletter
	posts         map[int64]domain.NewsletterPost
	subscriptions map[int64]domain.Subscription
	logs          []domain.DeliveryLog
	orders        map[int64]domain.Order
	products      map[int64]domain.Product

	nextID int64
}

func newState() *state {
	return &state{
		users:         map[string]domain.User{},
		preferences:   map[string]domain.Preference{},
		campaigns:     map[int64]domain.Campaign{},
		newsletters:   map[int64]domain.Newsletter{},
		posts:         map[int64]domain.NewsletterPost{},
		subscriptions: map[int64]domain.Subscription{},
		orders:        map[int64]domain.Order{},
		products:      map[int64]domain.Product{},
	}
}

// clone copies the maps; values are copied by assignment, and slice fields
// are never mutated in place so sharing their backing arrays is safe.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.preferences {
		c.preferences[k] = v
	}
	for k, v := range s.campaigns {
		c.campaigns[k] = v
	}
	for k, v := range s.newsletters {
		c.newsletters[k] = v
	}
	for k, v := range s.posts {
		c.posts[k] = v
	}
	for k, v := range s.subscriptions {
		c.subscriptions[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	c.logs = append([]domain.DeliveryLog(nil), s.logs...)
	c.nextID = s.nextID
	return c
}

// Store is an in-memory repository.Store.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   *state
	now  func() time.Time
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

// WithClock overrides the clock used for created_at/updated_at stamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

func (s *Store) Users() repository.UserRepository                 { return userRepo{s} }
func (s *Store) Preferences() repository.PreferenceRepository     { return preferenceRepo{s} }
func (s *Store) Campaigns() repository.CampaignRepository         { return campaignRepo{s} }
func (s *Store) Newsletters() repository.NewsletterRepository     { return newsletterRepo{s} }
func (s *Store) Subscriptions() repository.SubscriptionRepository { return subscriptionRepo{s} }
func (s *Store) DeliveryLogs() repository.DeliveryLogRepository   { return logRepo{s} }
func (s *Store) Orders() repository.OrderRepository               { return orderRepo{s} }
func (s *Store) Products() repository.ProductRepository           { return productRepo{s} }

// WithinTx runs fn against s, restoring the previous state if fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func copyChannels(in []domain.Channel) []domain.Channel {
	if in == nil {
		return nil
	}
	return append([]domain.Channel(nil), in...)
}

func timePtr(t time.Time) *time.Time { return &t }
