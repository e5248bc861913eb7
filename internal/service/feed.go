package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/repository"
)

// FeedBuilder rebuilds a user's notification feed from delivery logs.
type FeedBuilder struct {
	logs      repository.DeliveryLogRepository
	campaigns repository.CampaignRepository
}

// NewFeedBuilder creates a FeedBuilder.
func NewFeedBuilder(logs repository.DeliveryLogRepository, campaigns repository.CampaignRepository) *FeedBuilder {
	return &FeedBuilder{logs: logs, campaigns: campaigns}
}

type feedGroup struct {
	entry    domain.FeedEntry
	channels map[domain.Channel]struct{}
}

func (g *feedGroup) add(l domain.DeliveryLog) {
	g.channels[l.Channel] = struct{}{}
	if l.SentAt.After(g.entry.ReceivedAt) {
		g.entry.ReceivedAt = l.SentAt
	}
}

type orderKey struct{ message, content string }

// Build returns userID's feed, newest first. One entry is produced per
// campaign, per newsletter post and per distinct order message. The output
// depends only on stored state.
func (f *FeedBuilder) Build(ctx context.Context, userID string) ([]domain.FeedEntry, error) {
	logs, err := f.logs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list delivery logs: %w", err)
	}

	var (
		campaignGroups = map[int64]*feedGroup{}
		postGroups     = map[int64]*feedGroup{}
		orderGroups    = map[orderKey]*feedGroup{}
	)
	newGroup := func(e domain.FeedEntry) *feedGroup {
		return &feedGroup{entry: e, channels: map[domain.Channel]struct{}{}}
	}

	for _, l := range logs {
		if l.Blank() {
			continue
		}
		var g *feedGroup
		switch l.Origin.Kind {
		case domain.OriginCampaign:
			if g = campaignGroups[l.Origin.RefID]; g == nil {
				g = newGroup(domain.FeedEntry{Origin: l.Origin})
				campaignGroups[l.Origin.RefID] = g
			}
		case domain.OriginNewsletterPost:
			if g = postGroups[l.Origin.RefID]; g == nil {
				g = newGroup(domain.FeedEntry{
					Title:    l.Message,
					Body:     l.Content,
					Category: domain.CategoryNewsletters,
					Origin:   l.Origin,
				})
				postGroups[l.Origin.RefID] = g
			}
		case domain.OriginOrder:
			k := orderKey{l.Message, l.Content}
			if g = orderGroups[k]; g == nil {
				g = newGroup(domain.FeedEntry{
					Title:    l.Message,
					Body:     l.Content,
					Category: domain.CategoryOrderUpdates,
					Origin:   l.Origin,
				})
				orderGroups[k] = g
			}
		default:
			continue
		}
		g.add(l)
	}

	entries := make([]domain.FeedEntry, 0, len(campaignGroups)+len(postGroups)+len(orderGroups))

	if len(campaignGroups) > 0 {
		ids := make([]int64, 0, len(campaignGroups))
		for id := range campaignGroups {
			ids = append(ids, id)
		}
		campaigns, err := f.campaigns.GetMany(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load feed campaigns: %w", err)
		}
		for id, g := range campaignGroups {
			c, ok := campaigns[id]
			if !ok {
				// deleted after sending
				continue
			}
			g.entry.Title = c.Name
			g.entry.Body = c.Content
			g.entry.Category = c.Category
			entries = append(entries, g.finish())
		}
	}
	for _, g := range postGroups {
		entries = append(entries, g.finish())
	}
	for _, g := range orderGroups {
		entries = append(entries, g.finish())
	}

	slices.SortFunc(entries, compareFeedEntries)
	return entries, nil
}

func (g *feedGroup) finish() domain.FeedEntry {
	e := g.entry
	e.Channels = make([]domain.Channel, 0, len(g.channels))
	for ch := range g.channels {
		e.Channels = append(e.Channels, ch)
	}
	domain.SortChannels(e.Channels)
	return e
}

// compareFeedEntries orders newest first, then by title, origin and body.
func compareFeedEntries(a, b domain.FeedEntry) int {
	return cmp.Or(
		b.ReceivedAt.Compare(a.ReceivedAt),
		cmp.Compare(a.Title, b.Title),
		cmp.Compare(a.Origin.Kind, b.Origin.Kind),
		cmp.Compare(a.Origin.RefID, b.Origin.RefID),
		cmp.Compare(a.Body, b.Body),
	)
}

