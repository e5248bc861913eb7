package memory

import (
	"context"
	"sort"

	"storecast.io/notifier/internal/domain"
)

type logRepo struct{ s *Store }

func (r logRepo) Append(ctx context.Context, l domain.DeliveryLog) (domain.DeliveryLog, error) {
	if err := l.Origin.Validate(); err != nil {
		return domain.DeliveryLog{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l.ID = r.s.id()
	if l.SentAt.IsZero() {
		l.SentAt = r.s.now()
	}
	if l.Status == "" {
		l.Status = domain.DeliveryStatusSent
	}
	r.s.st.logs = append(r.s.st.logs, l)
	return l, nil
}

func (r logRepo) ListByOrigin(ctx context.Context, o domain.Origin) ([]domain.DeliveryLog, error) {
	return r.filter(func(l domain.DeliveryLog) bool { return l.Origin == o }), nil
}

func (r logRepo) ListByUser(ctx context.Context, userID string) ([]domain.DeliveryLog, error) {
	return r.filter(func(l domain.DeliveryLog) bool { return l.UserID == userID }), nil
}

func (r logRepo) filter(keep func(domain.DeliveryLog) bool) []domain.DeliveryLog {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.DeliveryLog
	for _, l := range r.s.st.logs {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
