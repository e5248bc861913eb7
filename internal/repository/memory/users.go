package memory

import (
	"context"
	"sort"
	"strings"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
)

type userRepo struct{ s *Store }

func sortUsers(us []domain.User) []domain.User {
	sort.Slice(us, func(i, j int) bool { return us[i].ID < us[j].ID })
	return us
}

func (r userRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.users[u.ID]; ok {
		return domain.User{}, repository.ErrConflict
	}
	for _, existing := range r.s.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.User{}, repository.ErrConflict
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.s.now()
	}
	r.s.st.users[u.ID] = u
	return u, nil
}

func (r userRepo) Get(ctx context.Context, id string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.st.users[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r userRepo) GetMany(ctx context.Context, ids []string) (map[string]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.st.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r userRepo) List(ctx context.Context) ([]domain.User, error) {
	return r.filter(func(domain.User) bool { return true }), nil
}

func (r userRepo) ListActive(ctx context.Context) ([]domain.User, error) {
	return r.filter(func(u domain.User) bool { return u.Active }), nil
}

func (r userRepo) ListByCities(ctx context.Context, cities []string) ([]domain.User, error) {
	return r.filter(func(u domain.User) bool {
		if !u.Active || u.City == "" {
			return false
		}
		for _, c := range cities {
			if strings.EqualFold(strings.TrimSpace(c), u.City) {
				return true
			}
		}
		return false
	}), nil
}

func (r userRepo) filter(keep func(domain.User) bool) []domain.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.User
	for _, u := range r.s.st.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	return sortUsers(out)
}

func (r userRepo) Update(ctx context.Context, u domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.st.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, other := range r.s.st.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return repository.ErrConflict
		}
	}
	u.CreatedAt = existing.CreatedAt
	r.s.st.users[u.ID] = u
	return nil
}

func (r userRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.st.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Active = active
	r.s.st.users[id] = u
	return nil
}

func (r userRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.st.users, id)
	delete(r.s.st.preferences, id)
	for sid, sub := range r.s.st.subscriptions {
		if sub.UserID == id {
			delete(r.s.st.subscriptions, sid)
		}
	}
	for oid, o := range r.s.st.orders {
		if o.UserID == id {
			delete(r.s.st.orders, oid)
		}
	}
	return nil
}
