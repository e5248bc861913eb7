package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/repository"
)

// CreateCampaignInput is a staff request for a new campaign. Category and
// Channels are already parsed by the caller.
type CreateCampaignInput struct {
	Name         string
	Category     domain.Category
	Content      string
	TargetCities []string
	Channels     []domain.Channel
	// ScheduledAt defers the send. Nil sends immediately.
	ScheduledAt *time.Time
}

// CampaignService handles staff campaign management.
type CampaignService struct {
	store      repository.Store
	dispatcher *Dispatcher
}

// NewCampaignService creates a new CampaignService.
func NewCampaignService(store repository.Store, dispatcher *Dispatcher) *CampaignService {
	return &CampaignService{store: store, dispatcher: dispatcher}
}

// Create stores a campaign. With ScheduledAt set it is left SCHEDULED for the
// sweep; otherwise it is dispatched before Create returns, and the dispatch
// result is non-nil.
func (s *CampaignService) Create(ctx context.Context, in CreateCampaignInput) (domain.Campaign, *DispatchResult, error) {
	if err := validateCampaign(in.Name, in.Category); err != nil {
		return domain.Campaign{}, nil, err
	}
	channels := domain.UniqueChannels(in.Channels)
	if len(channels) == 0 {
		return domain.Campaign{}, nil, apperrors.BadRequest(apperrors.CodeInvalidChannel, "at least one channel is required")
	}

	c := domain.Campaign{
		Name:         strings.TrimSpace(in.Name),
		Category:     in.Category,
		Content:      in.Content,
		TargetCities: cleanCities(in.TargetCities),
		Channels:     channels,
		Status:       domain.StatusDraft,
	}
	if in.ScheduledAt != nil {
		if in.ScheduledAt.IsZero() {
			return domain.Campaign{}, nil, apperrors.BadRequest(apperrors.CodeInvalidSchedule, "scheduled_at is invalid")
		}
		at := in.ScheduledAt.UTC()
		c.Status = domain.StatusScheduled
		c.ScheduledAt = &at
	}

	created, err := s.store.Campaigns().Create(ctx, c)
	if err != nil {
		return domain.Campaign{}, nil, fmt.Errorf("create campaign: %w", err)
	}
	if created.Status == domain.StatusScheduled {
		logger.Info("campaign scheduled",
			zap.Int64("campaign_id", created.ID),
			zap.Time("scheduled_at", *created.ScheduledAt),
		)
		return created, nil, nil
	}

	res, err := s.dispatcher.DispatchCampaign(ctx, created.ID)
	if latest, getErr := s.store.Campaigns().Get(ctx, created.ID); getErr == nil {
		created = latest
	}
	return created, &res, err
}

// Get returns campaign id.
func (s *CampaignService) Get(ctx context.Context, id int64) (domain.Campaign, error) {
	c, err := s.store.Campaigns().Get(ctx, id)
	if err != nil {
		return domain.Campaign{}, campaignErr(id, err)
	}
	return c, nil
}

// List returns every campaign, newest first.
func (s *CampaignService) List(ctx context.Context) ([]domain.Campaign, error) {
	out, err := s.store.Campaigns().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return out, nil
}

// Update edits the name, category, content and target cities of campaign id.
// Status and schedule are not touched.
func (s *CampaignService) Update(ctx context.Context, id int64, upd domain.CampaignUpdate) (domain.Campaign, error) {
	if err := validateCampaign(upd.Name, upd.Category); err != nil {
		return domain.Campaign{}, err
	}
	upd.Name = strings.TrimSpace(upd.Name)
	upd.TargetCities = cleanCities(upd.TargetCities)

	c, err := s.store.Campaigns().Update(ctx, id, upd)
	if err != nil {
		return domain.Campaign{}, campaignErr(id, err)
	}
	return c, nil
}

// Schedule moves campaign id to SCHEDULED at when.
func (s *CampaignService) Schedule(ctx context.Context, id int64, when time.Time, channels []domain.Channel) (domain.Campaign, error) {
	return s.dispatcher.ScheduleCampaign(ctx, id, when, channels)
}

// Dispatch sends campaign id now.
func (s *CampaignService) Dispatch(ctx context.Context, id int64) (DispatchResult, error) {
	return s.dispatcher.DispatchCampaign(ctx, id)
}

// Delete removes campaign id and its delivery logs.
func (s *CampaignService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		return tx.Campaigns().Delete(ctx, id)
	})
	if err != nil {
		return campaignErr(id, err)
	}
	logger.Info("campaign deleted", zap.Int64("campaign_id", id))
	return nil
}

// Recipients reports one line per delivery log of campaign id. Logs of users
// that no longer exist are left out.
func (s *CampaignService) Recipients(ctx context.Context, id int64) ([]domain.RecipientReport, error) {
	if _, err := s.store.Campaigns().Get(ctx, id); err != nil {
		return nil, campaignErr(id, err)
	}
	logs, err := s.store.DeliveryLogs().ListByOrigin(ctx, domain.CampaignOrigin(id))
	if err != nil {
		return nil, fmt.Errorf("list campaign %d logs: %w", id, err)
	}

	ids := make([]string, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.UserID)
	}
	slices.Sort(ids)
	users, err := s.store.Users().GetMany(ctx, slices.Compact(ids))
	if err != nil {
		return nil, fmt.Errorf("load campaign %d recipients: %w", id, err)
	}

	report := make([]domain.RecipientReport, 0, len(logs))
	for _, l := range logs {
		u, ok := users[l.UserID]
		if !ok {
			continue
		}
		report = append(report, domain.RecipientReport{
			UserID:  u.ID,
			Name:    u.Name,
			Email:   u.Email,
			Status:  l.Status,
			SentAt:  l.SentAt,
			Channel: l.Channel,
		})
	}
	return report, nil
}

func validateCampaign(name string, c domain.Category) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.ErrInvalidRequestf("campaign name is required")
	}
	if !c.Valid() {
		return apperrors.BadRequest(apperrors.CodeInvalidCategory, "unknown campaign category").
			WithParams(map[string]interface{}{"category": string(c)})
	}
	return nil
}

// cleanCities trims entries and drops blanks.
func cleanCities(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
