package memory

import (
	"context"
	"sort"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
)

type subscriptionRepo struct{ s *Store }

func (r subscriptionRepo) Create(ctx context.Context, sub domain.Subscription) (domain.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.users[sub.UserID]; !ok {
		return domain.Subscription{}, repository.ErrNotFound
	}
	if _, ok := r.s.st.newsletters[sub.NewsletterID]; !ok {
		return domain.Subscription{}, repository.ErrNotFound
	}
	for _, existing := range r.s.st.subscriptions {
		if existing.UserID == sub.UserID && existing.NewsletterID == sub.NewsletterID {
			return domain.Subscription{}, repository.ErrConflict
		}
	}
	sub.ID = r.s.id()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = r.s.now()
	}
	r.s.st.subscriptions[sub.ID] = sub
	return sub, nil
}

func (r subscriptionRepo) Get(ctx context.Context, id int64) (domain.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sub, ok := r.s.st.subscriptions[id]
	if !ok {
		return domain.Subscription{}, repository.ErrNotFound
	}
	return sub, nil
}

func (r subscriptionRepo) ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return r.filter(func(s domain.Subscription) bool { return s.UserID == userID }), nil
}

func (r subscriptionRepo) ListByNewsletter(ctx context.Context, newsletterID int64) ([]domain.Subscription, error) {
	return r.filter(func(s domain.Subscription) bool { return s.NewsletterID == newsletterID }), nil
}

func (r subscriptionRepo) filter(keep func(domain.Subscription) bool) []domain.Subscription {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Subscription
	for _, sub := range r.s.st.subscriptions {
		if keep(sub) {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r subscriptionRepo) Update(ctx context.Context, sub domain.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.st.subscriptions[sub.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.ReceiveEmail = sub.ReceiveEmail
	existing.ReceiveSms = sub.ReceiveSms
	existing.ReceivePush = sub.ReceivePush
	r.s.st.subscriptions[sub.ID] = existing
	return nil
}

func (r subscriptionRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.subscriptions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.st.subscriptions, id)
	return nil
}
