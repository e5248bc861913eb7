package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/repository"
)

// OrderNotifier sends transactional order messages.
//
// Unlike campaign and newsletter resolution, a user without a preference
// record gets every channel. Both behaviors are kept on purpose until the
// product side settles on one.
type OrderNotifier struct {
	prefs  repository.PreferenceRepository
	writer *LogWriter
}

// NewOrderNotifier creates an OrderNotifier.
func NewOrderNotifier(prefs repository.PreferenceRepository, writer *LogWriter) *OrderNotifier {
	return &OrderNotifier{prefs: prefs, writer: writer}
}

// OrderChannels returns the channels an order message goes out on for pref.
// A nil pref yields all channels.
func OrderChannels(pref *domain.Preference) []domain.Channel {
	if pref == nil {
		return append([]domain.Channel(nil), domain.AllChannels...)
	}
	if !pref.OrderUpdates() {
		return nil
	}
	return pref.Permitted(domain.CategoryOrderUpdates, domain.AllChannels)
}

// NotifyOrderEvent writes order-origin logs for userID. Failures and panics
// are logged and swallowed so the calling order mutation is never affected.
func (n *OrderNotifier) NotifyOrderEvent(ctx context.Context, userID, subject, body string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("order notification panicked",
				zap.String("user_id", userID),
				zap.String("subject", subject),
				zap.Any("panic", r),
			)
		}
	}()

	if err := n.notify(ctx, userID, subject, body); err != nil {
		logger.Error("order notification failed",
			zap.String("user_id", userID),
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}

func (n *OrderNotifier) notify(ctx context.Context, userID, subject, body string) error {
	pref, err := n.prefs.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load preference: %w", err)
	}

	channels := OrderChannels(pref)
	if len(channels) == 0 {
		logger.Debug("order updates disabled for user", zap.String("user_id", userID))
		return nil
	}

	written, err := n.writer.WriteAll(ctx, userID, channels, domain.OrderOrigin(), subject, body)
	if err != nil {
		return fmt.Errorf("wrote %d of %d channels: %w", written, len(channels), err)
	}
	logger.Info("order notification sent",
		zap.String("user_id", userID),
		zap.Int("channels", written),
		zap.Bool("default_preference", pref == nil),
	)
	return nil
}
