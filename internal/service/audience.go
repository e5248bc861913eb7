// Package service holds the notification engine: audience resolution,
// dispatch, the scheduler sweep and the per-user feed, plus the thin
// services behind the HTTP API.
//
// Services receive a repository.Store and never start transactions inside a
// fan-out; each delivery log write stands on its own.
package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
)

// Recipient is a resolved user and the channels they may receive on.
type Recipient struct {
	User     domain.User      `json:"user"`
	Channels []domain.Channel `json:"channels"`
}

// AudienceResolver turns targeting criteria into recipients.
//
// Users without a preference record are excluded, and so is every user for
// an unknown category. The order path is the exception and does not go
// through here.
type AudienceResolver struct {
	users repository.UserRepository
	prefs repository.PreferenceRepository
}

// NewAudienceResolver creates an AudienceResolver.
func NewAudienceResolver(users repository.UserRepository, prefs repository.PreferenceRepository) *AudienceResolver {
	return &AudienceResolver{users: users, prefs: prefs}
}

// CityFilterActive reports whether cities restricts the audience.
func CityFilterActive(cities []string) bool {
	if len(cities) == 0 {
		return false
	}
	return !slices.ContainsFunc(cities, func(c string) bool {
		return strings.EqualFold(strings.TrimSpace(c), domain.AllCities)
	})
}

// Resolve returns the recipients of c sorted by user ID.
func (r *AudienceResolver) Resolve(ctx context.Context, c domain.Criteria) ([]Recipient, error) {
	var (
		users []domain.User
		err   error
	)
	filtered := CityFilterActive(c.Cities)
	if filtered {
		users, err = r.users.ListByCities(ctx, c.Cities)
	} else {
		users, err = r.users.ListActive(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list candidate users: %w", err)
	}

	candidates := users[:0:0]
	for _, u := range users {
		if !u.Active {
			continue
		}
		if filtered && !cityMatches(u.City, c.Cities) {
			continue
		}
		candidates = append(candidates, u)
	}
	if len(candidates) == 0 || !c.Category.Valid() || len(c.Channels) == 0 {
		return []Recipient{}, nil
	}

	ids := make([]string, len(candidates))
	for i, u := range candidates {
		ids[i] = u.ID
	}
	prefs, err := r.prefs.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	channels := domain.UniqueChannels(c.Channels)
	out := make([]Recipient, 0, len(candidates))
	for _, u := range candidates {
		pref, ok := prefs[u.ID]
		if !ok {
			continue
		}
		permitted := pref.Permitted(c.Category, channels)
		if len(permitted) == 0 {
			continue
		}
		out = append(out, Recipient{User: u, Channels: permitted})
	}

	slices.SortFunc(out, func(a, b Recipient) int { return strings.Compare(a.User.ID, b.User.ID) })
	return out, nil
}

// Preview is Resolve for admin-facing previews before a send.
func (r *AudienceResolver) Preview(ctx context.Context, c domain.Criteria) ([]Recipient, error) {
	return r.Resolve(ctx, c)
}

// ResolveSubscribers returns the recipients of a newsletter post among subs.
// Channels come from each subscriber's global newsletter preference; the
// per-subscription flags are not consulted.
func (r *AudienceResolver) ResolveSubscribers(ctx context.Context, subs []domain.Subscription) ([]Recipient, error) {
	if len(subs) == 0 {
		return []Recipient{}, nil
	}
	ids := make([]string, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.UserID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	users, err := r.users.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}
	prefs, err := r.prefs.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	out := make([]Recipient, 0, len(ids))
	for _, id := range ids {
		u, ok := users[id]
		if !ok || !u.Active {
			continue
		}
		pref, ok := prefs[id]
		if !ok {
			continue
		}
		permitted := pref.Permitted(domain.CategoryNewsletters, domain.AllChannels)
		if len(permitted) == 0 {
			continue
		}
		out = append(out, Recipient{User: u, Channels: permitted})
	}
	return out, nil
}

func cityMatches(city string, cities []string) bool {
	if city == "" {
		return false
	}
	return slices.ContainsFunc(cities, func(c string) bool {
		return strings.EqualFold(strings.TrimSpace(c), city)
	})
}
