package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storecast.io/notifier/internal/domain"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/service"
)

// profileUpdateRequest is the self-service subset of a user. Email and role
// stay with staff.
type profileUpdateRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Phone *string `json:"phone"`
	City  *string `json:"city"`
}

// GetMyFeed handles GET /me/feed.
func (s *Server) GetMyFeed(c *gin.Context) {
	entries, err := s.feed.Build(c.Request.Context(), actorFromCtx(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// GetMyPreferences handles GET /me/preferences. A user without a record gets
// 404 so clients can tell "never set" from "all off".
func (s *Server) GetMyPreferences(c *gin.Context) {
	userID := actorFromCtx(c)
	view, err := s.preferences.Get(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if view == nil {
		_ = c.Error(apperrors.NotFound(apperrors.CodePreferenceNotFound, "no preferences recorded").
			WithParams(map[string]interface{}{"user_id": userID}))
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateMyPreferences handles PUT /me/preferences. Master switches are
// derived and cannot be set directly.
func (s *Server) UpdateMyPreferences(c *gin.Context) {
	var upd domain.PreferenceUpdate
	if !bindJSON(c, &upd) {
		return
	}
	view, err := s.preferences.Update(c.Request.Context(), actorFromCtx(c), upd)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListMySubscriptions handles GET /me/subscriptions.
func (s *Server) ListMySubscriptions(c *gin.Context) {
	items, err := s.newsletters.Subscriptions(c.Request.Context(), actorFromCtx(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListMyOrders handles GET /me/orders.
func (s *Server) ListMyOrders(c *gin.Context) {
	items, err := s.orders.ListByUser(c.Request.Context(), actorFromCtx(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetMyProfile handles GET /me/profile.
func (s *Server) GetMyProfile(c *gin.Context) {
	u, err := s.users.Get(c.Request.Context(), actorFromCtx(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateMyProfile handles PUT /me/profile. The city set here is what
// campaign city targeting matches.
func (s *Server) UpdateMyProfile(c *gin.Context) {
	var req profileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := s.users.Update(c.Request.Context(), actorFromCtx(c), service.UpdateUserInput{
		Name:  req.Name,
		Phone: req.Phone,
		City:  req.City,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}
