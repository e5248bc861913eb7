package memory

import (
	"context"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
)

type preferenceRepo struct{ s *Store }

func (r preferenceRepo) Get(ctx context.Context, userID string) (*domain.Preference, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.st.preferences[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r preferenceRepo) GetMany(ctx context.Context, userIDs []string) (map[string]domain.Preference, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]domain.Preference, len(userIDs))
	for _, id := range userIDs {
		if p, ok := r.s.st.preferences[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r preferenceRepo) Upsert(ctx context.Context, p domain.Preference) (domain.Preference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.users[p.UserID]; !ok {
		return domain.Preference{}, repository.ErrNotFound
	}
	p.UpdatedAt = r.s.now()
	r.s.st.preferences[p.UserID] = p
	return p, nil
}
