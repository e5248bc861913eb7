package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/service"
)

type productCreateRequest struct {
	Name        string          `json:"name" binding:"required,min=1"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url"`
	Price       decimal.Decimal `json:"price"`
}

// ListProducts handles GET /products.
func (s *Server) ListProducts(c *gin.Context) {
	items, err := s.products.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetProduct handles GET /products/:id.
func (s *Server) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := s.products.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateProduct handles POST /products (staff).
func (s *Server) CreateProduct(c *gin.Context) {
	var req productCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := s.products.Create(c.Request.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	logger.Info("product added by staff", zap.String("actor", actorFromCtx(c)), zap.Int64("product_id", p.ID))
	c.JSON(http.StatusCreated, p)
}

// DeleteProduct handles DELETE /products/:id (staff).
func (s *Server) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.products.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
