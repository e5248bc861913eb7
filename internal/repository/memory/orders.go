package memory

import (
	"context"
	"sort"
	"time"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
)

type orderRepo struct{ s *Store }

func (r orderRepo) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.users[o.UserID]; !ok {
		return domain.Order{}, repository.ErrNotFound
	}
	o.ID = r.s.id()
	now := r.s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	r.s.st.orders[o.ID] = o
	return o, nil
}

func (r orderRepo) Get(ctx context.Context, id int64) (domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.st.orders[id]
	if !ok {
		return domain.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (r orderRepo) List(ctx context.Context) ([]domain.Order, error) {
	return r.filter(func(domain.Order) bool { return true }), nil
}

func (r orderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.UserID == userID }), nil
}

func (r orderRepo) filter(keep func(domain.Order) bool) []domain.Order {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Order
	for _, o := range r.s.st.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r orderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, at time.Time) (domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.st.orders[id]
	if !ok {
		return domain.Order{}, repository.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = at
	r.s.st.orders[id] = o
	return o, nil
}
