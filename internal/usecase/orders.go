// Package usecase provides application use cases that span a storage write
// and its side effects. They are shared by the HTTP handlers and the CLI.
//
// Order writes commit first; domain events are dispatched afterwards so a
// failing notification can never roll back or fail the order itself.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/repository"
)

// PlaceOrderInput represents a customer purchase request. With ProductID
// set, the name and price come from the catalog and ProductName and Amount
// are ignored.
type PlaceOrderInput struct {
	UserID      string          `json:"user_id"`
	ProductID   int64           `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderUseCase places orders and moves them through fulfilment.
type OrderUseCase struct {
	store  repository.Store
	events *domain.EventDispatcher
	now    func() time.Time
}

// NewOrderUseCase creates a new OrderUseCase. A nil dispatcher drops events.
func NewOrderUseCase(store repository.Store, events *domain.EventDispatcher) *OrderUseCase {
	return &OrderUseCase{store: store, events: events, now: time.Now}
}

// WithClock overrides the clock used for event and status timestamps.
func (uc *OrderUseCase) WithClock(now func() time.Time) *OrderUseCase {
	uc.now = now
	return uc
}

// PlaceOrder stores a CONFIRMED order and emits ORDER_PLACED.
func (uc *OrderUseCase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (domain.Order, error) {
	product := strings.TrimSpace(in.ProductName)
	if in.ProductID == 0 {
		if product == "" {
			return domain.Order{}, apperrors.ErrInvalidRequestf("product_id or product_name is required")
		}
		if in.Amount.IsNegative() {
			return domain.Order{}, apperrors.BadRequest(apperrors.CodeInvalidAmount, "amount must not be negative")
		}
	}

	var order domain.Order
	err := uc.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().Get(ctx, in.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrUserNotFoundf(in.UserID)
			}
			return err
		}
		o := domain.Order{
			UserID:      in.UserID,
			ProductName: product,
			Amount:      in.Amount.Round(2),
			Status:      domain.OrderConfirmed,
		}
		if in.ProductID != 0 {
			p, err := tx.Products().Get(ctx, in.ProductID)
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrProductNotFoundf(in.ProductID)
			}
			if err != nil {
				return err
			}
			o.ProductName, o.Amount = p.Name, p.Price
		}
		var err error
		order, err = tx.Orders().Create(ctx, o)
		return err
	})
	if _, ok := apperrors.IsAppError(err); ok {
		return domain.Order{}, err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Order{}, apperrors.ErrUserNotFoundf(in.UserID)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}

	logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("amount", order.Amount.StringFixed(2)),
	)
	uc.emit(ctx, domain.EventOrderPlaced, order, "", in.UserID)
	return order, nil
}

// UpdateStatus moves order id to status and emits ORDER_STATUS_CHANGED.
// Setting the current status again still notifies the buyer.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, actorID string) (domain.Order, error) {
	if _, ok := domain.ParseOrderStatus(string(status)); !ok {
		return domain.Order{}, apperrors.ErrInvalidRequestf("unknown order status %q", status)
	}

	var before, after domain.Order
	err := uc.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		if before, err = tx.Orders().Get(ctx, id); err != nil {
			return err
		}
		after, err = tx.Orders().UpdateStatus(ctx, id, status, uc.now())
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Order{}, apperrors.ErrOrderNotFoundf(id)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order %d status: %w", id, err)
	}

	uc.emit(ctx, domain.EventOrderStatusChanged, after, before.Status, actorID)
	return after, nil
}

// Get returns order id.
func (uc *OrderUseCase) Get(ctx context.Context, id int64) (domain.Order, error) {
	o, err := uc.store.Orders().Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Order{}, apperrors.ErrOrderNotFoundf(id)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

// ListByUser returns the orders of userID, newest first.
func (uc *OrderUseCase) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	out, err := uc.store.Orders().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders of %s: %w", userID, err)
	}
	return out, nil
}

// List returns every order, newest first.
func (uc *OrderUseCase) List(ctx context.Context) ([]domain.Order, error) {
	out, err := uc.store.Orders().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

// emit dispatches an order event. Failures are logged only.
func (uc *OrderUseCase) emit(ctx context.Context, t domain.EventType, o domain.Order, previous domain.OrderStatus, actorID string) {
	if uc.events == nil {
		return
	}
	payload, err := domain.OrderEventPayload{
		OrderID:        o.ID,
		UserID:         o.UserID,
		ProductName:    o.ProductName,
		Amount:         o.Amount.StringFixed(2),
		Status:         o.Status,
		PreviousStatus: previous,
	}.ToJSON()
	if err != nil {
		logger.Error("encode order event", zap.Int64("order_id", o.ID), zap.Error(err))
		return
	}

	event := &domain.DomainEvent{
		EventID:       uuid.NewString(),
		EventType:     t,
		AggregateType: "order",
		AggregateID:   strconv.FormatInt(o.ID, 10),
		Payload:       payload,
		CreatedBy:     actorID,
		CreatedAt:     uc.now(),
	}
	if err := uc.events.Dispatch(ctx, event); err != nil {
		logger.Warn("order event not fully handled",
			zap.String("event_id", event.EventID),
			zap.String("event_type", string(t)),
			zap.Error(err),
		)
	}
}
