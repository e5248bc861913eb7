package sqlc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
)

// PostgreSQL error codes mapped onto repository sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store implements repository.Store over PostgreSQL.
type Store struct {
	pool *pgxpool.Pool // nil for transactional views
	q    *Queries
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a Store on pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: New(pool)}
}

func (s *Store) Users() repository.UserRepository                 { return userStore{s.q} }
func (s *Store) Preferences() repository.PreferenceRepository     { return preferenceStore{s.q} }
func (s *Store) Campaigns() repository.CampaignRepository         { return campaignStore{s.q} }
func (s *Store) Newsletters() repository.NewsletterRepository     { return newsletterStore{s.q} }
func (s *Store) Subscriptions() repository.SubscriptionRepository { return subscriptionStore{s.q} }
func (s *Store) DeliveryLogs() repository.DeliveryLogRepository   { return deliveryLogStore{s.q} }
func (s *Store) Orders() repository.OrderRepository               { return orderStore{s.q} }
func (s *Store) Products() repository.ProductRepository           { return productStore{s.q} }

// WithinTx runs fn in a pgx transaction. Nested calls reuse the outer one.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Store{q: s.q.WithTx(tx)}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping checks the pool; transactional views always succeed.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

func affectedOrNotFound(n int64, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func pgInt8(v int64) pgtype.Int8 {
	return pgtype.Int8{Int64: v, Valid: true}
}

func timestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func timeOrNil(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func statusStrings(in []domain.DispatchStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func channelStrings(in []domain.Channel) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, c := range in {
		out[i] = string(c)
	}
	return out
}

func toChannels(in []string) []domain.Channel {
	out := make([]domain.Channel, 0, len(in))
	for _, c := range in {
		out = append(out, domain.Channel(c))
	}
	return out
}

// users

type userStore struct{ q *Queries }

func toUser(u User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone.String,
		City:      u.City.String,
		Active:    u.Active,
		Role:      domain.Role(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toUsers(in []User, err error) ([]domain.User, error) {
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.User, 0, len(in))
	for _, u := range in {
		out = append(out, toUser(u))
	}
	return out, nil
}

func userParams(u domain.User) CreateUserParams {
	return CreateUserParams{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Phone:  text(u.Phone),
		City:   text(u.City),
		Active: u.Active,
		Role:   string(u.Role),
	}
}

func (r userStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	row, err := r.q.CreateUser(ctx, userParams(u))
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return toUser(row), nil
}

func (r userStore) Get(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return toUser(row), nil
}

func (r userStore) GetMany(ctx context.Context, ids []string) (map[string]domain.User, error) {
	users, err := toUsers(r.q.ListUsersByIDs(ctx, ids))
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r userStore) List(ctx context.Context) ([]domain.User, error) {
	return toUsers(r.q.ListUsers(ctx))
}

func (r userStore) ListActive(ctx context.Context) ([]domain.User, error) {
	return toUsers(r.q.ListActiveUsers(ctx))
}

func (r userStore) ListByCities(ctx context.Context, cities []string) ([]domain.User, error) {
	lower := make([]string, len(cities))
	for i, c := range cities {
		lower[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return toUsers(r.q.ListActiveUsersByCities(ctx, lower))
}

func (r userStore) Update(ctx context.Context, u domain.User) error {
	return affectedOrNotFound(r.q.UpdateUser(ctx, userParams(u)))
}

func (r userStore) SetActive(ctx context.Context, id string, active bool) error {
	return affectedOrNotFound(r.q.SetUserActive(ctx, id, active))
}

func (r userStore) Delete(ctx context.Context, id string) error {
	return affectedOrNotFound(r.q.DeleteUser(ctx, id))
}

// preferences

type preferenceStore struct{ q *Queries }

func toPreference(p Preference) domain.Preference {
	return domain.Preference{
		UserID:           p.UserID,
		EmailOffers:      p.EmailOffers,
		SmsOffers:        p.SmsOffers,
		PushOffers:       p.PushOffers,
		EmailNewsletters: p.EmailNewsletters,
		SmsNewsletters:   p.SmsNewsletters,
		PushNewsletters:  p.PushNewsletters,
		EmailOrders:      p.EmailOrders,
		SmsOrders:        p.SmsOrders,
		PushOrders:       p.PushOrders,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (r preferenceStore) Get(ctx context.Context, userID string) (*domain.Preference, error) {
	row, err := r.q.GetPreference(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err)
	}
	p := toPreference(row)
	return &p, nil
}

func (r preferenceStore) GetMany(ctx context.Context, userIDs []string) (map[string]domain.Preference, error) {
	rows, err := r.q.ListPreferencesByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, mapErr(err)
	}
	out := make(map[string]domain.Preference, len(rows))
	for _, row := range rows {
		out[row.UserID] = toPreference(row)
	}
	return out, nil
}

func (r preferenceStore) Upsert(ctx context.Context, p domain.Preference) (domain.Preference, error) {
	row, err := r.q.UpsertPreference(ctx, UpsertPreferenceParams{
		UserID:           p.UserID,
		EmailOffers:      p.EmailOffers,
		SmsOffers:        p.SmsOffers,
		PushOffers:       p.PushOffers,
		EmailNewsletters: p.EmailNewsletters,
		SmsNewsletters:   p.SmsNewsletters,
		PushNewsletters:  p.PushNewsletters,
		EmailOrders:      p.EmailOrders,
		SmsOrders:        p.SmsOrders,
		PushOrders:       p.PushOrders,
	})
	if err != nil {
		return domain.Preference{}, mapErr(err)
	}
	return toPreference(row), nil
}

// campaigns

type campaignStore struct{ q *Queries }

func toCampaign(c Campaign) domain.Campaign {
	return domain.Campaign{
		ID:              c.ID,
		Name:            c.Name,
		Category:        domain.Category(c.Category),
		Content:         c.Content,
		TargetCities:    c.TargetCities,
		Channels:        toChannels(c.Channels),
		Status:          domain.DispatchStatus(c.Status),
		ScheduledAt:     timeOrNil(c.ScheduledAt),
		SentAt:          timeOrNil(c.SentAt),
		RecipientsCount: int(c.RecipientsCount),
		CreatedAt:       c.CreatedAt,
	}
}

func toCampaigns(in []Campaign, err error) ([]domain.Campaign, error) {
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.Campaign, 0, len(in))
	for _, c := range in {
		out = append(out, toCampaign(c))
	}
	return out, nil
}

func (r campaignStore) Create(ctx context.Context, c domain.Campaign) (domain.Campaign, error) {
	cities := c.TargetCities
	if cities == nil {
		cities = []string{}
	}
	channels := channelStrings(c.Channels)
	if channels == nil {
		channels = []string{}
	}
	row, err := r.q.CreateCampaign(ctx, CreateCampaignParams{
		Name:         c.Name,
		Category:     string(c.Category),
		Content:      c.Content,
		TargetCities: cities,
		Channels:     channels,
		Status:       string(c.Status),
		ScheduledAt:  timestamptz(c.ScheduledAt),
	})
	if err != nil {
		return domain.Campaign{}, mapErr(err)
	}
	return toCampaign(row), nil
}

func (r campaignStore) Get(ctx context.Context, id int64) (domain.Campaign, error) {
	row, err := r.q.GetCampaign(ctx, id)
	if err != nil {
		return domain.Campaign{}, mapErr(err)
	}
	return toCampaign(row), nil
}

func (r campaignStore) GetMany(ctx context.Context, ids []int64) (map[int64]domain.Campaign, error) {
	cs, err := toCampaigns(r.q.ListCampaignsByIDs(ctx, ids))
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.Campaign, len(cs))
	for _, c := range cs {
		out[c.ID] = c
	}
	return out, nil
}

func (r campaignStore) List(ctx context.Context) ([]domain.Campaign, error) {
	return toCampaigns(r.q.ListCampaigns(ctx))
}

func (r campaignStore) Update(ctx context.Context, id int64, upd domain.CampaignUpdate) (domain.Campaign, error) {
	cities := upd.TargetCities
	if cities == nil {
		cities = []string{}
	}
	row, err := r.q.UpdateCampaign(ctx, UpdateCampaignParams{
		ID:           id,
		Name:         upd.Name,
		Category:     string(upd.Category),
		Content:      upd.Content,
		TargetCities: cities,
	})
	if err != nil {
		return domain.Campaign{}, mapErr(err)
	}
	return toCampaign(row), nil
}

// casResult distinguishes a lost compare-and-swap from a missing row.
func casResult(ctx context.Context, n int64, err error, exists func(context.Context, int64) (bool, error), id int64) (bool, error) {
	if err != nil {
		return false, mapErr(err)
	}
	if n > 0 {
		return true, nil
	}
	ok, err := exists(ctx, id)
	if err != nil {
		return false, mapErr(err)
	}
	if !ok {
		return false, repository.ErrNotFound
	}
	return false, nil
}

func (r campaignStore) Schedule(ctx context.Context, id int64, at time.Time, channels []domain.Channel) (bool, error) {
	n, err := r.q.ScheduleCampaign(ctx, id, at, channelStrings(channels))
	return casResult(ctx, n, err, r.q.CampaignExists, id)
}

func (r campaignStore) Delete(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.q.DeleteCampaign(ctx, id))
}

func (r campaignStore) ListDue(ctx context.Context, now time.Time) ([]domain.Campaign, error) {
	return toCampaigns(r.q.ListDueCampaigns(ctx, now))
}

func (r campaignStore) ClaimForDispatch(ctx context.Context, id int64, from []domain.DispatchStatus) (bool, error) {
	n, err := r.q.ClaimCampaign(ctx, id, statusStrings(from))
	return casResult(ctx, n, err, r.q.CampaignExists, id)
}

func (r campaignStore) MarkSent(ctx context.Context, id int64, recipients int, at time.Time) error {
	return affectedOrNotFound(r.q.MarkCampaignSent(ctx, id, int32(recipients), at))
}

func (r campaignStore) ReleaseClaim(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.q.ReleaseCampaignClaim(ctx, id))
}

// newsletters

type newsletterStore struct{ q *Queries }

func toNewsletter(n Newsletter) domain.Newsletter {
	return domain.Newsletter{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		OwnerID:     n.OwnerID,
		CreatedAt:   n.CreatedAt,
	}
}

func toPost(p NewsletterPost) domain.NewsletterPost {
	return domain.NewsletterPost{
		ID:              p.ID,
		NewsletterID:    p.NewsletterID,
		Title:           p.Title,
		Content:         p.Content,
		Status:          domain.DispatchStatus(p.Status),
		ScheduledAt:     timeOrNil(p.ScheduledAt),
		SentAt:          timeOrNil(p.SentAt),
		RecipientsCount: int(p.RecipientsCount),
		CreatedAt:       p.CreatedAt,
	}
}

func toPosts(in []NewsletterPost, err error) ([]domain.NewsletterPost, error) {
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.NewsletterPost, 0, len(in))
	for _, p := range in {
		out = append(out, toPost(p))
	}
	return out, nil
}

func (r newsletterStore) CreateNewsletter(ctx context.Context, n domain.Newsletter) (domain.Newsletter, error) {
	row, err := r.q.CreateNewsletter(ctx, n.Title, n.Description, n.OwnerID)
	if err != nil {
		return domain.Newsletter{}, mapErr(err)
	}
	return toNewsletter(row), nil
}

func (r newsletterStore) GetNewsletter(ctx context.Context, id int64) (domain.Newsletter, error) {
	row, err := r.q.GetNewsletter(ctx, id)
	if err != nil {
		return domain.Newsletter{}, mapErr(err)
	}
	return toNewsletter(row), nil
}

func (r newsletterStore) ListNewsletters(ctx context.Context) ([]domain.Newsletter, error) {
	rows, err := r.q.ListNewsletters(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.Newsletter, 0, len(rows))
	for _, n := range rows {
		out = append(out, toNewsletter(n))
	}
	return out, nil
}

func (r newsletterStore) CreatePost(ctx context.Context, p domain.NewsletterPost) (domain.NewsletterPost, error) {
	row, err := r.q.CreatePost(ctx, CreatePostParams{
		NewsletterID: p.NewsletterID,
		Title:        p.Title,
		Content:      p.Content,
		Status:       string(p.Status),
		ScheduledAt:  timestamptz(p.ScheduledAt),
	})
	if err != nil {
		return domain.NewsletterPost{}, mapErr(err)
	}
	return toPost(row), nil
}

func (r newsletterStore) GetPost(ctx context.Context, id int64) (domain.NewsletterPost, error) {
	row, err := r.q.GetPost(ctx, id)
	if err != nil {
		return domain.NewsletterPost{}, mapErr(err)
	}
	return toPost(row), nil
}

func (r newsletterStore) ListPosts(ctx context.Context, newsletterID int64) ([]domain.NewsletterPost, error) {
	return toPosts(r.q.ListPosts(ctx, newsletterID))
}

func (r newsletterStore) ListDuePosts(ctx context.Context, now time.Time) ([]domain.NewsletterPost, error) {
	return toPosts(r.q.ListDuePosts(ctx, now))
}

func (r newsletterStore) SchedulePost(ctx context.Context, id int64, at time.Time) (bool, error) {
	n, err := r.q.SchedulePost(ctx, id, at)
	return casResult(ctx, n, err, r.q.PostExists, id)
}

func (r newsletterStore) ClaimPost(ctx context.Context, id int64, from []domain.DispatchStatus) (bool, error) {
	n, err := r.q.ClaimPost(ctx, id, statusStrings(from))
	return casResult(ctx, n, err, r.q.PostExists, id)
}

func (r newsletterStore) MarkPostSent(ctx context.Context, id int64, recipients int, at time.Time) error {
	return affectedOrNotFound(r.q.MarkPostSent(ctx, id, int32(recipients), at))
}

func (r newsletterStore) ReleasePostClaim(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.q.ReleasePostClaim(ctx, id))
}

// subscriptions

type subscriptionStore struct{ q *Queries }

func toSubscription(s NewsletterSubscription) domain.Subscription {
	return domain.Subscription{
		ID:           s.ID,
		UserID:       s.UserID,
		NewsletterID: s.NewsletterID,
		ReceiveEmail: s.ReceiveEmail,
		ReceiveSms:   s.ReceiveSms,
		ReceivePush:  s.ReceivePush,
		CreatedAt:    s.CreatedAt,
	}
}

func toSubscriptions(in []NewsletterSubscription, err error) ([]domain.Subscription, error) {
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.Subscription, 0, len(in))
	for _, s := range in {
		out = append(out, toSubscription(s))
	}
	return out, nil
}

func (r subscriptionStore) Create(ctx context.Context, s domain.Subscription) (domain.Subscription, error) {
	row, err := r.q.CreateSubscription(ctx, CreateSubscriptionParams{
		UserID:       s.UserID,
		NewsletterID: s.NewsletterID,
		ReceiveEmail: s.ReceiveEmail,
		ReceiveSms:   s.ReceiveSms,
		ReceivePush:  s.ReceivePush,
	})
	if err != nil {
		return domain.Subscription{}, mapErr(err)
	}
	return toSubscription(row), nil
}

func (r subscriptionStore) Get(ctx context.Context, id int64) (domain.Subscription, error) {
	row, err := r.q.GetSubscription(ctx, id)
	if err != nil {
		return domain.Subscription{}, mapErr(err)
	}
	return toSubscription(row), nil
}

func (r subscriptionStore) ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return toSubscriptions(r.q.ListSubscriptionsByUser(ctx, userID))
}

func (r subscriptionStore) ListByNewsletter(ctx context.Context, newsletterID int64) ([]domain.Subscription, error) {
	return toSubscriptions(r.q.ListSubscriptionsByNewsletter(ctx, newsletterID))
}

func (r subscriptionStore) Update(ctx context.Context, s domain.Subscription) error {
	return affectedOrNotFound(r.q.UpdateSubscriptionFlags(ctx, s.ID, s.ReceiveEmail, s.ReceiveSms, s.ReceivePush))
}

func (r subscriptionStore) Delete(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.q.DeleteSubscription(ctx, id))
}

// delivery logs

type deliveryLogStore struct{ q *Queries }

func toDeliveryLog(l DeliveryLog) domain.DeliveryLog {
	var origin domain.Origin
	switch domain.OriginKind(l.OriginKind) {
	case domain.OriginCampaign:
		origin = domain.CampaignOrigin(l.CampaignID.Int64)
	case domain.OriginNewsletterPost:
		origin = domain.NewsletterPostOrigin(l.NewsletterPostID.Int64)
	default:
		origin = domain.OrderOrigin()
	}
	return domain.DeliveryLog{
		ID:      l.ID,
		UserID:  l.UserID,
		Channel: domain.Channel(l.Channel),
		Status:  l.Status,
		SentAt:  l.SentAt,
		Message: l.Message.String,
		Content: l.Content.String,
		Origin:  origin,
	}
}

func toDeliveryLogs(in []DeliveryLog, err error) ([]domain.DeliveryLog, error) {
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.DeliveryLog, 0, len(in))
	for _, l := range in {
		out = append(out, toDeliveryLog(l))
	}
	return out, nil
}

func (r deliveryLogStore) Append(ctx context.Context, l domain.DeliveryLog) (domain.DeliveryLog, error) {
	if err := l.Origin.Validate(); err != nil {
		return domain.DeliveryLog{}, err
	}
	arg := InsertDeliveryLogParams{
		UserID:     l.UserID,
		Channel:    string(l.Channel),
		Status:     l.Status,
		Message:    text(l.Message),
		Content:    text(l.Content),
		OriginKind: string(l.Origin.Kind),
	}
	if arg.Status == "" {
		arg.Status = domain.DeliveryStatusSent
	}
	if !l.SentAt.IsZero() {
		arg.SentAt = pgtype.Timestamptz{Time: l.SentAt, Valid: true}
	} else {
		arg.SentAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	}
	switch l.Origin.Kind {
	case domain.OriginCampaign:
		arg.CampaignID = pgInt8(l.Origin.RefID)
	case domain.OriginNewsletterPost:
		arg.NewsletterPostID = pgInt8(l.Origin.RefID)
	}

	row, err := r.q.InsertDeliveryLog(ctx, arg)
	if err != nil {
		return domain.DeliveryLog{}, mapErr(err)
	}
	return toDeliveryLog(row), nil
}

func (r deliveryLogStore) ListByOrigin(ctx context.Context, o domain.Origin) ([]domain.DeliveryLog, error) {
	switch o.Kind {
	case domain.OriginCampaign:
		return toDeliveryLogs(r.q.ListDeliveryLogsByCampaign(ctx, o.RefID))
	case domain.OriginNewsletterPost:
		return toDeliveryLogs(r.q.ListDeliveryLogsByPost(ctx, o.RefID))
	case domain.OriginOrder:
		return toDeliveryLogs(r.q.ListOrderDeliveryLogs(ctx))
	}
	return nil, o.Validate()
}

func (r deliveryLogStore) ListByUser(ctx context.Context, userID string) ([]domain.DeliveryLog, error) {
	return toDeliveryLogs(r.q.ListDeliveryLogsByUser(ctx, userID))
}

// orders

type orderStore struct{ q *Queries }

func toOrder(o Order) (domain.Order, error) {
	amount, err := decimal.NewFromString(o.Amount)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse order %d amount %q: %w", o.ID, o.Amount, err)
	}
	return domain.Order{
		ID:          o.ID,
		UserID:      o.UserID,
		ProductName: o.ProductName,
		Amount:      amount,
		Status:      domain.OrderStatus(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}, nil
}

func toOrders(in []Order, err error) ([]domain.Order, error) {
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.Order, 0, len(in))
	for _, row := range in {
		o, err := toOrder(row)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r orderStore) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	row, err := r.q.CreateOrder(ctx, CreateOrderParams{
		UserID:      o.UserID,
		ProductName: o.ProductName,
		Amount:      o.Amount.StringFixed(2),
		Status:      string(o.Status),
	})
	if err != nil {
		return domain.Order{}, mapErr(err)
	}
	return toOrder(row)
}

func (r orderStore) Get(ctx context.Context, id int64) (domain.Order, error) {
	row, err := r.q.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, mapErr(err)
	}
	return toOrder(row)
}

func (r orderStore) List(ctx context.Context) ([]domain.Order, error) {
	return toOrders(r.q.ListOrders(ctx))
}

func (r orderStore) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return toOrders(r.q.ListOrdersByUser(ctx, userID))
}

func (r orderStore) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, at time.Time) (domain.Order, error) {
	row, err := r.q.UpdateOrderStatus(ctx, id, string(status), at)
	if err != nil {
		return domain.Order{}, mapErr(err)
	}
	return toOrder(row)
}

// products

type productStore struct{ q *Queries }

func toProduct(p Product) (domain.Product, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("parse product %d price %q: %w", p.ID, p.Price, err)
	}
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageUrl,
		Price:       price,
		CreatedAt:   p.CreatedAt,
	}, nil
}

func (r productStore) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	row, err := r.q.CreateProduct(ctx, CreateProductParams{
		Name:        p.Name,
		Description: p.Description,
		ImageUrl:    p.ImageURL,
		Price:       p.Price.StringFixed(2),
	})
	if err != nil {
		return domain.Product{}, mapErr(err)
	}
	return toProduct(row)
}

func (r productStore) Get(ctx context.Context, id int64) (domain.Product, error) {
	row, err := r.q.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, mapErr(err)
	}
	return toProduct(row)
}

func (r productStore) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.q.ListProducts(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := toProduct(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r productStore) Delete(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.q.DeleteProduct(ctx, id))
}
