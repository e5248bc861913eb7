package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
)

type campaignRepo struct{ s *Store }

func (r campaignRepo) Create(ctx context.Context, c domain.Campaign) (domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.ID = r.s.id()
	c.TargetCities = copyStrings(c.TargetCities)
	c.Channels = copyChannels(c.Channels)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.s.now()
	}
	r.s.st.campaigns[c.ID] = c
	return c, nil
}

func (r campaignRepo) Get(ctx context.Context, id int64) (domain.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.st.campaigns[id]
	if !ok {
		return domain.Campaign{}, repository.ErrNotFound
	}
	return c, nil
}

func (r campaignRepo) GetMany(ctx context.Context, ids []int64) (map[int64]domain.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[int64]domain.Campaign, len(ids))
	for _, id := range ids {
		if c, ok := r.s.st.campaigns[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (r campaignRepo) List(ctx context.Context) ([]domain.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Campaign, 0, len(r.s.st.campaigns))
	for _, c := range r.s.st.campaigns {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r campaignRepo) Update(ctx context.Context, id int64, upd domain.CampaignUpdate) (domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.st.campaigns[id]
	if !ok {
		return domain.Campaign{}, repository.ErrNotFound
	}
	c.Name = upd.Name
	c.Category = upd.Category
	c.Content = upd.Content
	c.TargetCities = copyStrings(upd.TargetCities)
	r.s.st.campaigns[id] = c
	return c, nil
}

func (r campaignRepo) Schedule(ctx context.Context, id int64, at time.Time, channels []domain.Channel) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.st.campaigns[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if !slices.Contains(domain.Dispatchable, c.Status) {
		return false, nil
	}
	c.Status = domain.StatusScheduled
	c.ScheduledAt = timePtr(at)
	if len(channels) > 0 {
		c.Channels = copyChannels(channels)
	}
	r.s.st.campaigns[id] = c
	return true, nil
}

func (r campaignRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.campaigns[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.st.campaigns, id)

	origin := domain.CampaignOrigin(id)
	kept := r.s.st.logs[:0:0]
	for _, l := range r.s.st.logs {
		if l.Origin != origin {
			kept = append(kept, l)
		}
	}
	r.s.st.logs = kept
	return nil
}

func (r campaignRepo) ListDue(ctx context.Context, now time.Time) ([]domain.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Campaign
	for _, c := range r.s.st.campaigns {
		if c.Status == domain.StatusScheduled && c.ScheduledAt != nil && !c.ScheduledAt.After(now) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(*out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(*out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r campaignRepo) ClaimForDispatch(ctx context.Context, id int64, from []domain.DispatchStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.st.campaigns[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if !slices.Contains(from, c.Status) {
		return false, nil
	}
	c.Status = domain.StatusDispatching
	r.s.st.campaigns[id] = c
	return true, nil
}

func (r campaignRepo) MarkSent(ctx context.Context, id int64, recipients int, at time.Time) error {
	return r.transition(id, func(c *domain.Campaign) {
		c.Status = domain.StatusSent
		c.RecipientsCount = recipients
		c.SentAt = timePtr(at)
	})
}

func (r campaignRepo) ReleaseClaim(ctx context.Context, id int64) error {
	return r.transition(id, func(c *domain.Campaign) {
		c.Status = domain.StatusDraft
	})
}

// transition applies fn to a DISPATCHING campaign.
func (r campaignRepo) transition(id int64, fn func(*domain.Campaign)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.st.campaigns[id]
	if !ok || c.Status != domain.StatusDispatching {
		return repository.ErrNotFound
	}
	fn(&c)
	r.s.st.campaigns[id] = c
	return nil
}
