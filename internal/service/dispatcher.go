package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/metrics"
	"storecast.io/notifier/internal/notification"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/pkg/worker"
	"storecast.io/notifier/internal/repository"
)

// DispatchResult summarizes one dispatch.
type DispatchResult struct {
	// Recipients counts users with at least one log written.
	Recipients int `json:"recipients"`
	Logs       int `json:"logs"`
	// Failures counts users whose writes stopped on a storage error.
	Failures int `json:"failures"`
}

// Dispatcher sends campaigns and newsletter posts.
//
// Every dispatch first claims the item by moving it to DISPATCHING with a
// conditional update, so an item is sent at most once even when sweeps and
// manual dispatches race.
type Dispatcher struct {
	store    repository.Store
	resolver *AudienceResolver
	writer   *notification.LogWriter
	pool     *worker.Pool
	metrics  *metrics.Metrics
	now      func() time.Time
	timeout  time.Duration
}

// defaultDispatchTimeout bounds a claimed dispatch once it no longer follows
// the caller's context.
const defaultDispatchTimeout = 15 * time.Minute

// NewDispatcher creates a Dispatcher. A nil pool writes sequentially.
func NewDispatcher(store repository.Store, resolver *AudienceResolver, writer *notification.LogWriter, pool *worker.Pool, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		store:    store,
		resolver: resolver,
		writer:   writer,
		pool:     pool,
		metrics:  m,
		now:      time.Now,
		timeout:  defaultDispatchTimeout,
	}
}

// WithClock overrides the clock used for sent_at.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// WithTimeout overrides the bound on a claimed dispatch.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

// DispatchCampaign sends campaign id now. Once the campaign is claimed the
// dispatch runs to completion even if ctx is cancelled.
func (d *Dispatcher) DispatchCampaign(ctx context.Context, id int64) (DispatchResult, error) {
	campaigns := d.store.Campaigns()

	c, err := campaigns.Get(ctx, id)
	if err != nil {
		return DispatchResult{}, campaignErr(id, err)
	}
	if c.Status == domain.StatusSent {
		return DispatchResult{}, errCampaignAlreadySent(id)
	}

	claimed, err := campaigns.ClaimForDispatch(ctx, id, domain.Dispatchable)
	if err != nil {
		return DispatchResult{}, campaignErr(id, err)
	}
	if !claimed {
		d.metrics.Dispatched("campaign", "skipped")
		return DispatchResult{}, apperrors.Conflict(apperrors.CodeCampaignNotDispatchable,
			"campaign is being dispatched or was already sent").
			WithParams(map[string]interface{}{"campaign_id": id})
	}

	ctx, cancel := d.detach(ctx)
	defer cancel()

	recipients, err := d.resolver.Resolve(ctx, c.Criteria())
	if err != nil {
		d.release(ctx, "campaign", id, campaigns.ReleaseClaim)
		d.metrics.Dispatched("campaign", "failed")
		return DispatchResult{}, fmt.Errorf("resolve campaign %d recipients: %w", id, err)
	}

	log := logger.Dispatch("campaign", id)
	res, deliverErr := d.deliver(ctx, log, recipients, domain.CampaignOrigin(id), c.Name, c.Content)
	if err := campaigns.MarkSent(ctx, id, res.Recipients, d.now()); err != nil {
		d.metrics.Dispatched("campaign", "failed")
		return res, fmt.Errorf("mark campaign %d sent: %w", id, err)
	}
	d.metrics.Dispatched("campaign", "sent")

	log.Info("campaign dispatched",
		zap.String("category", string(c.Category)),
		zap.Int("recipients", res.Recipients),
		zap.Int("logs", res.Logs),
		zap.Int("failures", res.Failures),
	)
	if deliverErr != nil {
		return res, fmt.Errorf("campaign %d dispatch interrupted: %w", id, deliverErr)
	}
	return res, nil
}

// DispatchPost sends newsletter post id now to the newsletter's subscribers.
// Like DispatchCampaign it ignores cancellation of ctx after the claim.
func (d *Dispatcher) DispatchPost(ctx context.Context, id int64) (DispatchResult, error) {
	newsletters := d.store.Newsletters()

	p, err := newsletters.GetPost(ctx, id)
	if err != nil {
		return DispatchResult{}, postErr(id, err)
	}
	if p.Status == domain.StatusSent {
		return DispatchResult{}, errPostNotDispatchable(id, "post was already sent")
	}
	n, err := newsletters.GetNewsletter(ctx, p.NewsletterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return DispatchResult{}, apperrors.ErrNewsletterNotFoundf(p.NewsletterID)
		}
		return DispatchResult{}, fmt.Errorf("get newsletter %d: %w", p.NewsletterID, err)
	}

	claimed, err := newsletters.ClaimPost(ctx, id, domain.Dispatchable)
	if err != nil {
		return DispatchResult{}, postErr(id, err)
	}
	if !claimed {
		d.metrics.Dispatched("post", "skipped")
		return DispatchResult{}, errPostNotDispatchable(id, "post is being dispatched or was already sent")
	}

	ctx, cancel := d.detach(ctx)
	defer cancel()

	subs, err := d.store.Subscriptions().ListByNewsletter(ctx, n.ID)
	var recipients []Recipient
	if err == nil {
		recipients, err = d.resolver.ResolveSubscribers(ctx, subs)
	}
	if err != nil {
		d.release(ctx, "post", id, newsletters.ReleasePostClaim)
		d.metrics.Dispatched("post", "failed")
		return DispatchResult{}, fmt.Errorf("resolve post %d recipients: %w", id, err)
	}

	log := logger.Dispatch("post", id)
	res, deliverErr := d.deliver(ctx, log, recipients, domain.NewsletterPostOrigin(id), domain.PostLogTitle(n, p), p.Content)
	if err := newsletters.MarkPostSent(ctx, id, res.Recipients, d.now()); err != nil {
		d.metrics.Dispatched("post", "failed")
		return res, fmt.Errorf("mark post %d sent: %w", id, err)
	}
	d.metrics.Dispatched("post", "sent")

	log.Info("newsletter post dispatched",
		zap.Int64("newsletter_id", n.ID),
		zap.Int("subscribers", len(subs)),
		zap.Int("recipients", res.Recipients),
		zap.Int("failures", res.Failures),
	)
	if deliverErr != nil {
		return res, fmt.Errorf("post %d dispatch interrupted: %w", id, deliverErr)
	}
	return res, nil
}

// ScheduleCampaign sets campaign id to go out at when. Non-empty channels
// replace the stored channel list.
func (d *Dispatcher) ScheduleCampaign(ctx context.Context, id int64, when time.Time, channels []domain.Channel) (domain.Campaign, error) {
	if when.IsZero() {
		return domain.Campaign{}, apperrors.BadRequest(apperrors.CodeInvalidSchedule, "scheduled_at is required")
	}
	ok, err := d.store.Campaigns().Schedule(ctx, id, when, domain.UniqueChannels(channels))
	if err != nil {
		return domain.Campaign{}, campaignErr(id, err)
	}
	c, err := d.store.Campaigns().Get(ctx, id)
	if err != nil {
		return domain.Campaign{}, campaignErr(id, err)
	}
	if !ok {
		if c.Status == domain.StatusSent {
			return domain.Campaign{}, errCampaignAlreadySent(id)
		}
		return domain.Campaign{}, apperrors.Conflict(apperrors.CodeCampaignNotDispatchable, "campaign is being dispatched").
			WithParams(map[string]interface{}{"campaign_id": id})
	}
	logger.Info("campaign scheduled", zap.Int64("campaign_id", id), zap.Time("scheduled_at", when))
	return c, nil
}

// SchedulePost sets post id to go out at when.
func (d *Dispatcher) SchedulePost(ctx context.Context, id int64, when time.Time) (domain.NewsletterPost, error) {
	if when.IsZero() {
		return domain.NewsletterPost{}, apperrors.BadRequest(apperrors.CodeInvalidSchedule, "scheduled_at is required")
	}
	ok, err := d.store.Newsletters().SchedulePost(ctx, id, when)
	if err != nil {
		return domain.NewsletterPost{}, postErr(id, err)
	}
	if !ok {
		return domain.NewsletterPost{}, errPostNotDispatchable(id, "post is being dispatched or was already sent")
	}
	p, err := d.store.Newsletters().GetPost(ctx, id)
	if err != nil {
		return domain.NewsletterPost{}, postErr(id, err)
	}
	logger.Info("newsletter post scheduled", zap.Int64("post_id", id), zap.Time("scheduled_at", when))
	return p, nil
}

// deliver writes every recipient's logs on the pool. A recipient whose write
// fails is skipped; the returned error is only set when the fan-out itself
// stopped early.
func (d *Dispatcher) deliver(ctx context.Context, log *zap.Logger, recipients []Recipient, origin domain.Origin, title, body string) (DispatchResult, error) {
	var reached, logs, failures atomic.Int64

	send := func(ctx context.Context, i int) {
		r := recipients[i]
		n, err := d.writer.WriteAll(ctx, r.User.ID, r.Channels, origin, title, body)
		logs.Add(int64(n))
		if n > 0 {
			reached.Add(1)
		}
		if err != nil {
			failures.Add(1)
			log.Error("delivery write failed",
				zap.String("user_id", r.User.ID),
				zap.Stringer("origin", origin),
				zap.Int("written", n),
				zap.Int("channels", len(r.Channels)),
				zap.Error(err),
			)
		}
	}

	var err error
	if d.pool == nil {
		for i := range recipients {
			send(ctx, i)
		}
	} else {
		err = d.pool.Fanout(ctx, len(recipients), send)
	}

	return DispatchResult{
		Recipients: int(reached.Load()),
		Logs:       int(logs.Load()),
		Failures:   int(failures.Load()),
	}, err
}

// detach drops the caller's cancellation so a claimed item cannot be left
// half sent or stuck in DISPATCHING.
func (d *Dispatcher) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
}

// release returns a claimed item to DRAFT after a failed resolve. It runs even
// when ctx is already cancelled.
func (d *Dispatcher) release(ctx context.Context, kind string, id int64, release func(context.Context, int64) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := release(ctx, id); err != nil {
		logger.Dispatch(kind, id).Error("failed to release dispatch claim", zap.Error(err))
	}
}

func campaignErr(id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrCampaignNotFoundf(id)
	}
	return fmt.Errorf("campaign %d: %w", id, err)
}

func postErr(id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrPostNotFoundf(id)
	}
	return fmt.Errorf("post %d: %w", id, err)
}

func errCampaignAlreadySent(id int64) error {
	return apperrors.Conflict(apperrors.CodeCampaignAlreadySent, "campaign was already sent").
		WithParams(map[string]interface{}{"campaign_id": id})
}

func errPostNotDispatchable(id int64, msg string) error {
	return apperrors.Conflict(apperrors.CodePostNotDispatchable, msg).
		WithParams(map[string]interface{}{"post_id": id})
}
