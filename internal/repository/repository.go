// Package repository defines the storage contracts used by the notification
// services. Implementations live in sub-packages: sqlc (PostgreSQL via pgx),
// memory (in-process, for tests and local runs) and cache (a read-through
// preference cache that wraps another PreferenceRepository).
package repository

import (
	"context"
	"errors"
	"time"

	"storecast.io/notifier/internal/domain"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict is returned when a write violates a uniqueness rule.
	ErrConflict = errors.New("repository: conflict")
)

// UserRepository reads and writes users.
type UserRepository interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// ListActive returns every active user.
	ListActive(ctx context.Context) ([]domain.User, error)
	// ListByCities returns active users whose city case-insensitively
	// equals one of cities.
	ListByCities(ctx context.Context, cities []string) ([]domain.User, error)
	Update(ctx context.Context, u domain.User) error
	SetActive(ctx context.Context, id string, active bool) error
	// Delete removes the user and, by cascade, their preference.
	Delete(ctx context.Context, id string) error
}

// PreferenceRepository stores one Preference per user.
type PreferenceRepository interface {
	// Get returns (nil, nil) when the user has no preference record.
	Get(ctx context.Context, userID string) (*domain.Preference, error)
	// GetMany omits users without a record from the result.
	GetMany(ctx context.Context, userIDs []string) (map[string]domain.Preference, error)
	Upsert(ctx context.Context, p domain.Preference) (domain.Preference, error)
}

// CampaignRepository stores campaigns and their dispatch state.
type CampaignRepository interface {
	Create(ctx context.Context, c domain.Campaign) (domain.Campaign, error)
	Get(ctx context.Context, id int64) (domain.Campaign, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]domain.Campaign, error)
	List(ctx context.Context) ([]domain.Campaign, error)
	Update(ctx context.Context, id int64, upd domain.CampaignUpdate) (domain.Campaign, error)
	// Schedule moves a DRAFT or SCHEDULED campaign to SCHEDULED at the given
	// time. It reports false when the campaign is in any other status.
	Schedule(ctx context.Context, id int64, at time.Time, channels []domain.Channel) (bool, error)
	// Delete removes the campaign together with its delivery logs.
	Delete(ctx context.Context, id int64) error

	// ListDue returns SCHEDULED campaigns with scheduled_at <= now.
	ListDue(ctx context.Context, now time.Time) ([]domain.Campaign, error)
	// ClaimForDispatch atomically moves the campaign from one of from to
	// DISPATCHING. It reports false when the campaign is not in from.
	ClaimForDispatch(ctx context.Context, id int64, from []domain.DispatchStatus) (bool, error)
	// MarkSent moves a DISPATCHING campaign to SENT.
	MarkSent(ctx context.Context, id int64, recipients int, at time.Time) error
	// ReleaseClaim moves a DISPATCHING campaign back to DRAFT.
	ReleaseClaim(ctx context.Context, id int64) error
}

// NewsletterRepository stores newsletters and their posts.
type NewsletterRepository interface {
	CreateNewsletter(ctx context.Context, n domain.Newsletter) (domain.Newsletter, error)
	GetNewsletter(ctx context.Context, id int64) (domain.Newsletter, error)
	ListNewsletters(ctx context.Context) ([]domain.Newsletter, error)

	CreatePost(ctx context.Context, p domain.NewsletterPost) (domain.NewsletterPost, error)
	GetPost(ctx context.Context, id int64) (domain.NewsletterPost, error)
	ListPosts(ctx context.Context, newsletterID int64) ([]domain.NewsletterPost, error)
	// SchedulePost moves a DRAFT or SCHEDULED post to SCHEDULED at the given
	// time. It reports false when the post is in any other status.
	SchedulePost(ctx context.Context, id int64, at time.Time) (bool, error)
	ListDuePosts(ctx context.Context, now time.Time) ([]domain.NewsletterPost, error)
	ClaimPost(ctx context.Context, id int64, from []domain.DispatchStatus) (bool, error)
	MarkPostSent(ctx context.Context, id int64, recipients int, at time.Time) error
	ReleasePostClaim(ctx context.Context, id int64) error
}

// SubscriptionRepository stores (user, newsletter) subscriptions.
type SubscriptionRepository interface {
	// Create returns ErrConflict when the pair already exists.
	Create(ctx context.Context, s domain.Subscription) (domain.Subscription, error)
	Get(ctx context.Context, id int64) (domain.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
	ListByNewsletter(ctx context.Context, newsletterID int64) ([]domain.Subscription, error)
	Update(ctx context.Context, s domain.Subscription) error
	Delete(ctx context.Context, id int64) error
}

// DeliveryLogRepository is append-only.
type DeliveryLogRepository interface {
	Append(ctx context.Context, l domain.DeliveryLog) (domain.DeliveryLog, error)
	// ListByOrigin returns logs of a campaign or newsletter post. All order
	// logs share one origin, so order origins match every order log.
	ListByOrigin(ctx context.Context, o domain.Origin) ([]domain.DeliveryLog, error)
	ListByUser(ctx context.Context, userID string) ([]domain.DeliveryLog, error)
}

// OrderRepository stores orders.
type OrderRepository interface {
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, at time.Time) (domain.Order, error)
}

// ProductRepository stores the catalog.
type ProductRepository interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	// Delete removes the product. Orders placed for it keep their copy.
	Delete(ctx context.Context, id int64) error
}

// Store groups every repository over one backing store.
type Store interface {
	Users() UserRepository
	Preferences() PreferenceRepository
	Campaigns() CampaignRepository
	Newsletters() NewsletterRepository
	Subscriptions() SubscriptionRepository
	DeliveryLogs() DeliveryLogRepository
	Orders() OrderRepository
	Products() ProductRepository

	// WithinTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
