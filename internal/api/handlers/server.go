// Package handlers implements the notifier HTTP API on gin.
//
// Handlers parse and validate the request, call one service or use case,
// and report failures through c.Error so the ErrorHandler middleware renders
// them. They never talk to a repository directly.
package handlers

import (
	"context"

	"storecast.io/notifier/internal/service"
	"storecast.io/notifier/internal/usecase"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server implements all API handlers.
type Server struct {
	store       Pinger
	users       *service.UserService
	preferences *service.PreferenceService
	campaigns   *service.CampaignService
	newsletters *service.NewsletterService
	audience    *service.AudienceResolver
	feed        *service.FeedBuilder
	scheduler   *service.Scheduler
	orders      *usecase.OrderUseCase
	products    *service.ProductService
}

// ServerDeps holds all dependencies for creating a Server.
type ServerDeps struct {
	Store       Pinger
	Users       *service.UserService
	Preferences *service.PreferenceService
	Campaigns   *service.CampaignService
	Newsletters *service.NewsletterService
	Audience    *service.AudienceResolver
	Feed        *service.FeedBuilder
	Scheduler   *service.Scheduler
	Orders      *usecase.OrderUseCase
	Products    *service.ProductService
}

// NewServer creates a new Server with all dependencies.
func NewServer(deps ServerDeps) *Server {
	return &Server{
		store:       deps.Store,
		users:       deps.Users,
		preferences: deps.Preferences,
		campaigns:   deps.Campaigns,
		newsletters: deps.Newsletters,
		audience:    deps.Audience,
		feed:        deps.Feed,
		scheduler:   deps.Scheduler,
		orders:      deps.Orders,
		products:    deps.Products,
	}
}

// actorFromCtx extracts the authenticated user ID from the request context.
func actorFromCtx(c interface{ GetString(any) string }) string {
	if uid := c.GetString("user_id"); uid != "" {
		return uid
	}
	return "anonymous"
}
