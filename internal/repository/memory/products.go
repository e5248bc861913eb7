package memory

import (
	"context"
	"sort"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
)

type productRepo struct{ s *Store }

func (r productRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = r.s.id()
	p.CreatedAt = r.s.now()
	r.s.st.products[p.ID] = p
	return p, nil
}

func (r productRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.st.products[id]
	if !ok {
		return domain.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (r productRepo) List(ctx context.Context) ([]domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.s.st.products))
	for _, p := range r.s.st.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r productRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.st.products, id)
	return nil
}
