package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/pkg/logger"
)

// Notifier is the order-path delivery contract.
type Notifier interface {
	NotifyOrderEvent(ctx context.Context, userID, subject, body string)
}

// Triggers turns order domain events into order notifications.
//
// Trigger points:
//  1. ORDER_PLACED: "Order Placed: <product>" with the amount
//  2. ORDER_STATUS_CHANGED: "Order Update" with the new status
type Triggers struct {
	notifier Notifier
}

// NewTriggers creates a new notification trigger service.
func NewTriggers(notifier Notifier) *Triggers {
	return &Triggers{notifier: notifier}
}

// Register binds the triggers to d.
func (t *Triggers) Register(d *domain.EventDispatcher) {
	d.Register(domain.EventOrderPlaced, t.handleOrderPlaced)
	d.Register(domain.EventOrderStatusChanged, t.handleOrderStatusChanged)
}

func (t *Triggers) handleOrderPlaced(ctx context.Context, event *domain.DomainEvent) error {
	p, err := domain.DecodeOrderEvent(event)
	if err != nil {
		return fmt.Errorf("decode %s payload: %w", event.EventType, err)
	}
	t.OnOrderPlaced(ctx, p)
	return nil
}

func (t *Triggers) handleOrderStatusChanged(ctx context.Context, event *domain.DomainEvent) error {
	p, err := domain.DecodeOrderEvent(event)
	if err != nil {
		return fmt.Errorf("decode %s payload: %w", event.EventType, err)
	}
	t.OnOrderStatusChanged(ctx, p)
	return nil
}

// OnOrderPlaced notifies the buyer that the order was accepted.
func (t *Triggers) OnOrderPlaced(ctx context.Context, p domain.OrderEventPayload) {
	subject, body := OrderPlacedMessage(p.ProductName, p.Amount)
	t.notifier.NotifyOrderEvent(ctx, p.UserID, subject, body)
}

// OnOrderStatusChanged notifies the buyer of a status transition.
func (t *Triggers) OnOrderStatusChanged(ctx context.Context, p domain.OrderEventPayload) {
	logger.Debug("order status changed",
		zap.Int64("order_id", p.OrderID),
		zap.String("from", string(p.PreviousStatus)),
		zap.String("to", string(p.Status)),
	)
	subject, body := OrderStatusMessage(p.Status)
	t.notifier.NotifyOrderEvent(ctx, p.UserID, subject, body)
}

// OrderPlacedMessage renders the subject and body sent on order placement.
func OrderPlacedMessage(product, amount string) (string, string) {
	return "Order Placed: " + product,
		fmt.Sprintf("Your order for %s has been placed successfully. Amount: %s", product, amount)
}

// OrderStatusMessage renders the subject and body sent on a status change.
func OrderStatusMessage(status domain.OrderStatus) (string, string) {
	return "Order Update", fmt.Sprintf("Your order is now %s", status)
}
