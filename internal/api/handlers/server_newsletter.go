package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/service"
)

type newsletterCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type postPublishRequest struct {
	Title       string     `json:"title" binding:"required"`
	Content     string     `json:"content"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type postPublished struct {
	Post     domain.NewsletterPost   `json:"post"`
	Dispatch *service.DispatchResult `json:"dispatch,omitempty"`
}

// CreateNewsletter handles POST /newsletters. The caller becomes the owner.
func (s *Server) CreateNewsletter(c *gin.Context) {
	var req newsletterCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := s.newsletters.Create(c.Request.Context(), actorFromCtx(c), req.Title, req.Description)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

// ListNewsletters handles GET /newsletters.
func (s *Server) ListNewsletters(c *gin.Context) {
	items, err := s.newsletters.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListNewsletterPosts handles GET /newsletters/:id/posts.
func (s *Server) ListNewsletterPosts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := s.newsletters.Posts(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// PublishPost handles POST /newsletters/:id/posts.
func (s *Server) PublishPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req postPublishRequest
	if !bindJSON(c, &req) {
		return
	}
	post, res, err := s.newsletters.Publish(c.Request.Context(), id, service.PublishPostInput{
		Title:       req.Title,
		Content:     req.Content,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, postPublished{Post: post, Dispatch: res})
}

// DispatchPost handles POST /newsletters/posts/:id/dispatch.
func (s *Server) DispatchPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := s.newsletters.DispatchPost(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SchedulePost handles POST /newsletters/posts/:id/schedule.
func (s *Server) SchedulePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req scheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := s.newsletters.SchedulePost(c.Request.Context(), id, req.ScheduledAt)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Subscribe handles POST /newsletters/:id/subscribe for the caller.
func (s *Server) Subscribe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var flags service.SubscriptionFlags
	if c.Request.ContentLength != 0 && !bindJSON(c, &flags) {
		return
	}
	sub, err := s.newsletters.Subscribe(c.Request.Context(), actorFromCtx(c), id, flags)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// UpdateSubscription handles PUT /subscriptions/:id.
func (s *Server) UpdateSubscription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var flags service.SubscriptionFlags
	if !bindJSON(c, &flags) {
		return
	}
	sub, err := s.newsletters.UpdateSubscription(c.Request.Context(), actorFromCtx(c), id, flags)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Unsubscribe handles DELETE /subscriptions/:id.
func (s *Server) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.newsletters.Unsubscribe(c.Request.Context(), actorFromCtx(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
