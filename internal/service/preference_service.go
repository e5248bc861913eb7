package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/repository"
)

// PreferenceView is a preference together with its derived master switches.
type PreferenceView struct {
	domain.Preference
	Offers       bool `json:"offers"`
	Newsletter   bool `json:"newsletter"`
	OrderUpdates bool `json:"order_updates"`
}

// NewPreferenceView derives the master switches of p.
func NewPreferenceView(p domain.Preference) PreferenceView {
	return PreferenceView{
		Preference:   p,
		Offers:       p.Offers(),
		Newsletter:   p.Newsletter(),
		OrderUpdates: p.OrderUpdates(),
	}
}

// PreferenceService reads and edits a user's own preferences.
type PreferenceService struct {
	prefs repository.PreferenceRepository
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(prefs repository.PreferenceRepository) *PreferenceService {
	return &PreferenceService{prefs: prefs}
}

// Get returns the preference of userID, or nil when none is stored.
func (s *PreferenceService) Get(ctx context.Context, userID string) (*PreferenceView, error) {
	p, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preference %s: %w", userID, err)
	}
	if p == nil {
		return nil, nil
	}
	v := NewPreferenceView(*p)
	return &v, nil
}

// Update applies upd to the stored preference of userID. A user without a
// record starts from everything off.
func (s *PreferenceService) Update(ctx context.Context, userID string, upd domain.PreferenceUpdate) (PreferenceView, error) {
	current, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return PreferenceView{}, fmt.Errorf("get preference %s: %w", userID, err)
	}
	base := domain.Preference{UserID: userID}
	if current != nil {
		base = *current
	}

	saved, err := s.prefs.Upsert(ctx, upd.Apply(base))
	if errors.Is(err, repository.ErrNotFound) {
		return PreferenceView{}, apperrors.ErrUserNotFoundf(userID)
	}
	if err != nil {
		return PreferenceView{}, fmt.Errorf("save preference %s: %w", userID, err)
	}

	v := NewPreferenceView(saved)
	logger.Debug("preferences updated",
		zap.String("user_id", userID),
		zap.Bool("offers", v.Offers),
		zap.Bool("newsletter", v.Newsletter),
		zap.Bool("order_updates", v.OrderUpdates),
	)
	return v, nil
}
