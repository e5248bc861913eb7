package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/repository"
)

// PublishPostInput is a request to publish a newsletter post.
type PublishPostInput struct {
	Title   string
	Content string
	// ScheduledAt defers the send. Nil sends immediately.
	ScheduledAt *time.Time
}

// SubscriptionFlags are the legacy per-subscription channel flags.
type SubscriptionFlags struct {
	ReceiveEmail bool `json:"receive_email"`
	ReceiveSms   bool `json:"receive_sms"`
	ReceivePush  bool `json:"receive_push"`
}

// NewsletterService manages newsletters, posts and subscriptions.
type NewsletterService struct {
	store      repository.Store
	dispatcher *Dispatcher
}

// NewNewsletterService creates a new NewsletterService.
func NewNewsletterService(store repository.Store, dispatcher *Dispatcher) *NewsletterService {
	return &NewsletterService{store: store, dispatcher: dispatcher}
}

// Create stores a newsletter owned by ownerID.
func (s *NewsletterService) Create(ctx context.Context, ownerID, title, description string) (domain.Newsletter, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Newsletter{}, apperrors.ErrInvalidRequestf("newsletter title is required")
	}
	n, err := s.store.Newsletters().CreateNewsletter(ctx, domain.Newsletter{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
	})
	if err != nil {
		return domain.Newsletter{}, fmt.Errorf("create newsletter: %w", err)
	}
	logger.Info("newsletter created", zap.Int64("newsletter_id", n.ID), zap.String("owner_id", ownerID))
	return n, nil
}

// List returns every newsletter.
func (s *NewsletterService) List(ctx context.Context) ([]domain.Newsletter, error) {
	out, err := s.store.Newsletters().ListNewsletters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list newsletters: %w", err)
	}
	return out, nil
}

// Posts returns the posts of newsletter id.
func (s *NewsletterService) Posts(ctx context.Context, id int64) ([]domain.NewsletterPost, error) {
	if _, err := s.newsletter(ctx, id); err != nil {
		return nil, err
	}
	out, err := s.store.Newsletters().ListPosts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list newsletter %d posts: %w", id, err)
	}
	return out, nil
}

// Publish creates a post on newsletter id. Without a schedule the post is
// dispatched to subscribers before Publish returns.
func (s *NewsletterService) Publish(ctx context.Context, id int64, in PublishPostInput) (domain.NewsletterPost, *DispatchResult, error) {
	if _, err := s.newsletter(ctx, id); err != nil {
		return domain.NewsletterPost{}, nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.NewsletterPost{}, nil, apperrors.ErrInvalidRequestf("post title is required")
	}

	p := domain.NewsletterPost{
		NewsletterID: id,
		Title:        title,
		Content:      in.Content,
		Status:       domain.StatusDraft,
	}
	if in.ScheduledAt != nil {
		if in.ScheduledAt.IsZero() {
			return domain.NewsletterPost{}, nil, apperrors.BadRequest(apperrors.CodeInvalidSchedule, "scheduled_at is invalid")
		}
		at := in.ScheduledAt.UTC()
		p.Status = domain.StatusScheduled
		p.ScheduledAt = &at
	}

	created, err := s.store.Newsletters().CreatePost(ctx, p)
	if err != nil {
		return domain.NewsletterPost{}, nil, fmt.Errorf("create post: %w", err)
	}
	if created.Status == domain.StatusScheduled {
		logger.Info("newsletter post scheduled",
			zap.Int64("post_id", created.ID),
			zap.Time("scheduled_at", *created.ScheduledAt),
		)
		return created, nil, nil
	}

	res, err := s.dispatcher.DispatchPost(ctx, created.ID)
	if latest, getErr := s.store.Newsletters().GetPost(ctx, created.ID); getErr == nil {
		created = latest
	}
	return created, &res, err
}

// SchedulePost moves post id to SCHEDULED at when.
func (s *NewsletterService) SchedulePost(ctx context.Context, id int64, when time.Time) (domain.NewsletterPost, error) {
	return s.dispatcher.SchedulePost(ctx, id, when)
}

// DispatchPost sends post id now.
func (s *NewsletterService) DispatchPost(ctx context.Context, id int64) (DispatchResult, error) {
	return s.dispatcher.DispatchPost(ctx, id)
}

// Subscribe adds userID to newsletter id.
func (s *NewsletterService) Subscribe(ctx context.Context, userID string, id int64, flags SubscriptionFlags) (domain.Subscription, error) {
	if _, err := s.newsletter(ctx, id); err != nil {
		return domain.Subscription{}, err
	}
	sub, err := s.store.Subscriptions().Create(ctx, domain.Subscription{
		UserID:       userID,
		NewsletterID: id,
		ReceiveEmail: flags.ReceiveEmail,
		ReceiveSms:   flags.ReceiveSms,
		ReceivePush:  flags.ReceivePush,
	})
	switch {
	case errors.Is(err, repository.ErrConflict):
		return domain.Subscription{}, apperrors.Conflict(apperrors.CodeAlreadySubscribed, "already subscribed").
			WithParams(map[string]interface{}{"newsletter_id": id})
	case errors.Is(err, repository.ErrNotFound):
		return domain.Subscription{}, apperrors.ErrUserNotFoundf(userID)
	case err != nil:
		return domain.Subscription{}, fmt.Errorf("subscribe %s to newsletter %d: %w", userID, id, err)
	}
	return sub, nil
}

// Subscriptions returns the subscriptions of userID.
func (s *NewsletterService) Subscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	out, err := s.store.Subscriptions().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return out, nil
}

// UpdateSubscription replaces the legacy flags of subscription subID. Only
// the subscriber may edit it.
func (s *NewsletterService) UpdateSubscription(ctx context.Context, userID string, subID int64, flags SubscriptionFlags) (domain.Subscription, error) {
	sub, err := s.ownedSubscription(ctx, userID, subID)
	if err != nil {
		return domain.Subscription{}, err
	}
	sub.ReceiveEmail = flags.ReceiveEmail
	sub.ReceiveSms = flags.ReceiveSms
	sub.ReceivePush = flags.ReceivePush
	if err := s.store.Subscriptions().Update(ctx, sub); err != nil {
		return domain.Subscription{}, subscriptionErr(subID, err)
	}
	return sub, nil
}

// Unsubscribe deletes subscription subID of userID.
func (s *NewsletterService) Unsubscribe(ctx context.Context, userID string, subID int64) error {
	if _, err := s.ownedSubscription(ctx, userID, subID); err != nil {
		return err
	}
	if err := s.store.Subscriptions().Delete(ctx, subID); err != nil {
		return subscriptionErr(subID, err)
	}
	return nil
}

func (s *NewsletterService) newsletter(ctx context.Context, id int64) (domain.Newsletter, error) {
	n, err := s.store.Newsletters().GetNewsletter(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Newsletter{}, apperrors.ErrNewsletterNotFoundf(id)
	}
	if err != nil {
		return domain.Newsletter{}, fmt.Errorf("get newsletter %d: %w", id, err)
	}
	return n, nil
}

// ownedSubscription hides other users' subscriptions behind not found.
func (s *NewsletterService) ownedSubscription(ctx context.Context, userID string, subID int64) (domain.Subscription, error) {
	sub, err := s.store.Subscriptions().Get(ctx, subID)
	if err != nil {
		return domain.Subscription{}, subscriptionErr(subID, err)
	}
	if sub.UserID != userID {
		return domain.Subscription{}, subscriptionErr(subID, repository.ErrNotFound)
	}
	return sub, nil
}

func subscriptionErr(id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(apperrors.CodeSubscriptionNotFound, "subscription not found").
			WithParams(map[string]interface{}{"subscription_id": id})
	}
	return fmt.Errorf("subscription %d: %w", id, err)
}
