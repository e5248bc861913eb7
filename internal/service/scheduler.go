package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"storecast.io/notifier/internal/metrics"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/repository"
)

// SweepResult summarizes one scheduler sweep.
type SweepResult struct {
	CampaignsSent int `json:"campaigns_sent"`
	PostsSent     int `json:"posts_sent"`
	// Failed counts due items whose dispatch errored.
	Failed int `json:"failed"`
	// Contended counts due items another dispatcher claimed first.
	Contended int `json:"contended"`
	// Skipped is set when another sweep was already running.
	Skipped bool `json:"skipped"`
}

// Scheduler dispatches campaigns and posts whose scheduled time has passed.
// Sweeps are single-flight per process; the dispatch claim covers
// concurrent processes.
type Scheduler struct {
	store      repository.Store
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
	mu         sync.Mutex
}

// NewScheduler creates a Scheduler.
func NewScheduler(store repository.Store, dispatcher *Dispatcher, m *metrics.Metrics) *Scheduler {
	return &Scheduler{store: store, dispatcher: dispatcher, metrics: m}
}

// Sweep dispatches every item due at now. A failing item is logged and the
// sweep moves on.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) SweepResult {
	log := logger.Named("scheduler")
	if !s.mu.TryLock() {
		log.Debug("scheduler sweep already running, skipping")
		s.metrics.SweepSkipped()
		return SweepResult{Skipped: true}
	}
	defer s.mu.Unlock()

	start := time.Now()
	var res SweepResult

	campaigns, err := s.store.Campaigns().ListDue(ctx, now)
	if err != nil {
		res.Failed++
		log.Error("list due campaigns failed", zap.Error(err))
	}
	for _, c := range campaigns {
		if ctx.Err() != nil {
			break
		}
		_, err := s.dispatcher.DispatchCampaign(ctx, c.ID)
		switch {
		case err == nil:
			res.CampaignsSent++
		case apperrors.HasCode(err, apperrors.CodeCampaignNotDispatchable),
			apperrors.HasCode(err, apperrors.CodeCampaignAlreadySent):
			res.Contended++
		default:
			res.Failed++
			log.Error("scheduled campaign dispatch failed", zap.Int64("campaign_id", c.ID), zap.Error(err))
		}
	}

	posts, err := s.store.Newsletters().ListDuePosts(ctx, now)
	if err != nil {
		res.Failed++
		log.Error("list due posts failed", zap.Error(err))
	}
	for _, p := range posts {
		if ctx.Err() != nil {
			break
		}
		_, err := s.dispatcher.DispatchPost(ctx, p.ID)
		switch {
		case err == nil:
			res.PostsSent++
		case apperrors.HasCode(err, apperrors.CodePostNotDispatchable):
			res.Contended++
		default:
			res.Failed++
			log.Error("scheduled post dispatch failed", zap.Int64("post_id", p.ID), zap.Error(err))
		}
	}

	s.metrics.SweepCompleted(time.Since(start).Seconds(), res.CampaignsSent+res.PostsSent, res.Failed, res.Contended)
	if res.CampaignsSent+res.PostsSent+res.Failed > 0 {
		log.Info("scheduler sweep completed",
			zap.Time("now", now),
			zap.Int("campaigns_sent", res.CampaignsSent),
			zap.Int("posts_sent", res.PostsSent),
			zap.Int("failed", res.Failed),
			zap.Int("contended", res.Contended),
		)
	}
	return res
}
