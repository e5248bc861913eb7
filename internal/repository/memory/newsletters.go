package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
)

type newsletterRepo struct{ s *Store }

func (r newsletterRepo) CreateNewsletter(ctx context.Context, n domain.Newsletter) (domain.Newsletter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n.ID = r.s.id()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.s.now()
	}
	r.s.st.newsletters[n.ID] = n
	return n, nil
}

func (r newsletterRepo) GetNewsletter(ctx context.Context, id int64) (domain.Newsletter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.st.newsletters[id]
	if !ok {
		return domain.Newsletter{}, repository.ErrNotFound
	}
	return n, nil
}

func (r newsletterRepo) ListNewsletters(ctx context.Context) ([]domain.Newsletter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Newsletter, 0, len(r.s.st.newsletters))
	for _, n := range r.s.st.newsletters {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r newsletterRepo) CreatePost(ctx context.Context, p domain.NewsletterPost) (domain.NewsletterPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.newsletters[p.NewsletterID]; !ok {
		return domain.NewsletterPost{}, repository.ErrNotFound
	}
	p.ID = r.s.id()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.s.now()
	}
	r.s.st.posts[p.ID] = p
	return p, nil
}

func (r newsletterRepo) GetPost(ctx context.Context, id int64) (domain.NewsletterPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.st.posts[id]
	if !ok {
		return domain.NewsletterPost{}, repository.ErrNotFound
	}
	return p, nil
}

func (r newsletterRepo) ListPosts(ctx context.Context, newsletterID int64) ([]domain.NewsletterPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.NewsletterPost
	for _, p := range r.s.st.posts {
		if p.NewsletterID == newsletterID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r newsletterRepo) ListDuePosts(ctx context.Context, now time.Time) ([]domain.NewsletterPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.NewsletterPost
	for _, p := range r.s.st.posts {
		if p.Status == domain.StatusScheduled && p.ScheduledAt != nil && !p.ScheduledAt.After(now) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r newsletterRepo) SchedulePost(ctx context.Context, id int64, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.st.posts[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if !slices.Contains(domain.Dispatchable, p.Status) {
		return false, nil
	}
	p.Status = domain.StatusScheduled
	p.ScheduledAt = timePtr(at)
	r.s.st.posts[id] = p
	return true, nil
}

func (r newsletterRepo) ClaimPost(ctx context.Context, id int64, from []domain.DispatchStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.st.posts[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if !slices.Contains(from, p.Status) {
		return false, nil
	}
	p.Status = domain.StatusDispatching
	r.s.st.posts[id] = p
	return true, nil
}

func (r newsletterRepo) MarkPostSent(ctx context.Context, id int64, recipients int, at time.Time) error {
	return r.transition(id, func(p *domain.NewsletterPost) {
		p.Status = domain.StatusSent
		p.RecipientsCount = recipients
		p.SentAt = timePtr(at)
	})
}

func (r newsletterRepo) ReleasePostClaim(ctx context.Context, id int64) error {
	return r.transition(id, func(p *domain.NewsletterPost) {
		p.Status = domain.StatusDraft
	})
}

func (r newsletterRepo) transition(id int64, fn func(*domain.NewsletterPost)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.st.posts[id]
	if !ok || p.Status != domain.StatusDispatching {
		return repository.ErrNotFound
	}
	fn(&p)
	r.s.st.posts[id] = p
	return nil
}
