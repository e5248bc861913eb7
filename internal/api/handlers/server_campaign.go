package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storecast.io/notifier/internal/domain"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/service"
)

type campaignCreateRequest struct {
	Name         string     `json:"name" binding:"required"`
	Category     string     `json:"category" binding:"required"`
	Content      string     `json:"content"`
	TargetCities []string   `json:"target_cities"`
	Channels     []string   `json:"channels" binding:"required"`
	ScheduledAt  *time.Time `json:"scheduled_at"`
}

type campaignUpdateRequest struct {
	Name         string   `json:"name" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	Content      string   `json:"content"`
	TargetCities []string `json:"target_cities"`
}

type scheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	// Channels replaces the campaign channels when non-empty.
	Channels []string `json:"channels"`
}

type previewRequest struct {
	Category string   `json:"category" binding:"required"`
	Channels []string `json:"channels"`
	Cities   []string `json:"cities"`
}

type campaignCreated struct {
	Campaign domain.Campaign         `json:"campaign"`
	Dispatch *service.DispatchResult `json:"dispatch,omitempty"`
}

// CreateCampaign handles POST /campaigns. Without scheduled_at the campaign
// is sent before the response is written.
func (s *Server) CreateCampaign(c *gin.Context) {
	var req campaignCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	channels, ok := parseChannels(c, req.Channels)
	if !ok {
		return
	}

	created, res, err := s.campaigns.Create(c.Request.Context(), service.CreateCampaignInput{
		Name:         req.Name,
		Category:     parseCategory(req.Category),
		Content:      req.Content,
		TargetCities: req.TargetCities,
		Channels:     channels,
		ScheduledAt:  req.ScheduledAt,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, campaignCreated{Campaign: created, Dispatch: res})
}

// ListCampaigns handles GET /campaigns.
func (s *Server) ListCampaigns(c *gin.Context) {
	items, err := s.campaigns.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetCampaign handles GET /campaigns/:id.
func (s *Server) GetCampaign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	campaign, err := s.campaigns.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// UpdateCampaign handles PUT /campaigns/:id.
func (s *Server) UpdateCampaign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req campaignUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := s.campaigns.Update(c.Request.Context(), id, domain.CampaignUpdate{
		Name:         req.Name,
		Category:     parseCategory(req.Category),
		Content:      req.Content,
		TargetCities: req.TargetCities,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteCampaign handles DELETE /campaigns/:id. Its delivery logs go with it.
func (s *Server) DeleteCampaign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.campaigns.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DispatchCampaign handles POST /campaigns/:id/dispatch.
func (s *Server) DispatchCampaign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := s.campaigns.Dispatch(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ScheduleCampaign handles POST /campaigns/:id/schedule.
func (s *Server) ScheduleCampaign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req scheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	var channels []domain.Channel
	if len(req.Channels) > 0 {
		if channels, ok = parseChannels(c, req.Channels); !ok {
			return
		}
	}
	campaign, err := s.campaigns.Schedule(c.Request.Context(), id, req.ScheduledAt, channels)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// GetCampaignRecipients handles GET /campaigns/:id/recipients.
func (s *Server) GetCampaignRecipients(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := s.campaigns.Recipients(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": report})
}

// PreviewAudience handles POST /campaigns/preview. An unknown category is not
// an error; it reaches nobody.
func (s *Server) PreviewAudience(c *gin.Context) {
	var req previewRequest
	if !bindJSON(c, &req) {
		return
	}
	channels := domain.AllChannels
	if len(req.Channels) > 0 {
		var ok bool
		if channels, ok = parseChannels(c, req.Channels); !ok {
			return
		}
	}

	recipients, err := s.audience.Preview(c.Request.Context(), domain.Criteria{
		Category: parseCategory(req.Category),
		Channels: channels,
		Cities:   req.Cities,
	})
	if err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.CodeInternal, "resolve audience", http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recipients), "items": recipients})
}
