package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"storecast.io/notifier/internal/pkg/logger"
)

// EventHandler processes a domain event.
type EventHandler func(ctx context.Context, event *DomainEvent) error

// EventDispatcher fans order events out to in-process handlers. Handlers are
// notification side effects of a committed change, so none of them can fail
// the change itself: errors and panics are logged and reported back to the
// caller as a joined error.
type EventDispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType][]EventHandler
}

// NewEventDispatcher creates an EventDispatcher with no handlers.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{handlers: make(map[EventType][]EventHandler)}
}

// Register adds handler for eventType. Handlers run in registration order.
func (d *EventDispatcher) Register(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Dispatch runs every handler registered for event.EventType. Every handler
// runs even when an earlier one fails or panics.
func (d *EventDispatcher) Dispatch(ctx context.Context, event *DomainEvent) error {
	d.mu.RLock()
	handlers := d.handlers[event.EventType]
	d.mu.RUnlock()

	log := logger.With(
		zap.String("event_type", string(event.EventType)),
		zap.String("event_id", event.EventID),
		zap.String(event.AggregateType+"_id", event.AggregateID),
	)
	if len(handlers) == 0 {
		log.Debug("no handlers registered for event type")
		return nil
	}

	var errs []error
	for i, handler := range handlers {
		if err := runHandler(ctx, handler, event); err != nil {
			log.Error("event handler failed", zap.Int("handler", i), zap.Error(err))
			errs = append(errs, fmt.Errorf("handler %d for %s: %w", i, event.EventType, err))
		}
	}
	return errors.Join(errs...)
}

func runHandler(ctx context.Context, handler EventHandler, event *DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return handler(ctx, event)
}
