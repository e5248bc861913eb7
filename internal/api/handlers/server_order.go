package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storecast.io/notifier/internal/domain"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/usecase"
)

// orderCreateRequest orders a catalog product by product_id, or a free-form
// item by product_name and amount.
type orderCreateRequest struct {
	ProductID   int64           `json:"product_id" binding:"omitempty,min=1"`
	ProductName string          `json:"product_name" binding:"required_without=ProductID"`
	Amount      decimal.Decimal `json:"amount"`
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PlaceOrder handles POST /orders for the caller.
func (s *Server) PlaceOrder(c *gin.Context) {
	var req orderCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := s.orders.PlaceOrder(c.Request.Context(), usecase.PlaceOrderInput{
		UserID:      actorFromCtx(c),
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Amount:      req.Amount,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /orders (staff).
func (s *Server) ListOrders(c *gin.Context) {
	items, err := s.orders.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UpdateOrderStatus handles PATCH /orders/:id/status (staff).
func (s *Server) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req orderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, valid := domain.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !valid {
		_ = c.Error(apperrors.ErrInvalidRequestf("unknown order status %q", req.Status))
		return
	}
	order, err := s.orders.UpdateStatus(c.Request.Context(), id, status, actorFromCtx(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, order)
}
