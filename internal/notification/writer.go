// Package notification records deliveries and runs the order-path notifier.
//
// Nothing here talks to a real email, SMS or push provider. A "send" is one
// immutable DeliveryLog row per (user, channel).
package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/metrics"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/repository"
)

// LogWriter appends delivery logs.
type LogWriter struct {
	logs    repository.DeliveryLogRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewLogWriter creates a LogWriter. m may be nil.
func NewLogWriter(logs repository.DeliveryLogRepository, m *metrics.Metrics) *LogWriter {
	return &LogWriter{logs: logs, metrics: m, now: time.Now}
}

// WithClock overrides the clock used for SentAt.
func (w *LogWriter) WithClock(now func() time.Time) *LogWriter {
	w.now = now
	return w
}

// Write appends exactly one log for (userID, ch). It never updates or
// deduplicates existing rows.
func (w *LogWriter) Write(ctx context.Context, userID string, ch domain.Channel, origin domain.Origin, title, body string) (domain.DeliveryLog, error) {
	if err := origin.Validate(); err != nil {
		return domain.DeliveryLog{}, err
	}

	saved, err := w.logs.Append(ctx, domain.DeliveryLog{
		UserID:  userID,
		Channel: ch,
		Status:  domain.DeliveryStatusSent,
		SentAt:  w.now(),
		Message: title,
		Content: body,
		Origin:  origin,
	})
	if err != nil {
		w.metrics.DeliveryFailed(string(origin.Kind))
		return domain.DeliveryLog{}, fmt.Errorf("append delivery log for user %s on %s: %w", userID, ch, err)
	}

	w.metrics.LogWritten(string(ch), string(origin.Kind))
	logger.Debug("delivery log written",
		zap.String("user_id", userID),
		zap.String("channel", string(ch)),
		zap.Stringer("origin", origin),
	)
	return saved, nil
}

// WriteAll writes one log per channel in order. It stops at the first
// failure and returns the number of logs written before it.
func (w *LogWriter) WriteAll(ctx context.Context, userID string, channels []domain.Channel, origin domain.Origin, title, body string) (int, error) {
	written := 0
	for _, ch := range channels {
		if _, err := w.Write(ctx, userID, ch, origin, title, body); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
