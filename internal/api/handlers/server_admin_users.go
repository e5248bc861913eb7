package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/service"
)

type userCreateRequest struct {
	ID    string `json:"id"`
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	City  string `json:"city"`
	Role  string `json:"role"`
}

type userUpdateRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
	City  *string `json:"city"`
}

// CreateUser handles POST /admin/users. The user starts with every
// preference flag on.
func (s *Server) CreateUser(c *gin.Context) {
	var req userCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := s.users.Create(c.Request.Context(), service.CreateUserInput{
		ID:    req.ID,
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
		City:  req.City,
		Role:  domain.Role(req.Role),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	logger.Info("user created by staff", zap.String("actor", actorFromCtx(c)), zap.String("user_id", u.ID))
	c.JSON(http.StatusCreated, u)
}

// ListUsers handles GET /admin/users.
func (s *Server) ListUsers(c *gin.Context) {
	items, err := s.users.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UpdateUser handles PATCH /admin/users/:user_id.
func (s *Server) UpdateUser(c *gin.Context) {
	var req userUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := s.users.Update(c.Request.Context(), c.Param("user_id"), service.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		City:  req.City,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ToggleUserActive handles POST /admin/users/:user_id/toggle-active.
func (s *Server) ToggleUserActive(c *gin.Context) {
	u, err := s.users.ToggleActive(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUser handles DELETE /admin/users/:user_id.
func (s *Server) DeleteUser(c *gin.Context) {
	if err := s.users.Delete(c.Request.Context(), c.Param("user_id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RunSweep handles POST /admin/scheduler/sweep: one synchronous sweep.
func (s *Server) RunSweep(c *gin.Context) {
	res := s.scheduler.Sweep(c.Request.Context(), time.Now())
	c.JSON(http.StatusOK, res)
}
