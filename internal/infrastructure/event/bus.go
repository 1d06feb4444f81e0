package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/shared"
)

const (
	defaultQueueSize      = 256
	defaultHandlerTimeout = 10 * time.Second
)

// Bus is an in-process asynchronous event bus. Publish enqueues and
// returns immediately; a background worker dispatches each event to
// its subscribers. Handler failures are logged and isolated, one
// failing handler never affects the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	queue    chan shared.DomainEvent
	logger   *zap.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewBus creates an event bus with the default queue size
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]shared.EventHandler),
		queue:    make(chan shared.DomainEvent, defaultQueueSize),
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Subscribe registers a handler for the given event types. When no
// types are passed, the handler's own EventTypes are used.
func (b *Bus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, et := range eventTypes {
		b.handlers[et] = append(b.handlers[et], handler)
	}
}

// Unsubscribe removes a handler from all event types
func (b *Bus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for et, hs := range b.handlers {
		filtered := hs[:0]
		for _, h := range hs {
			if h != handler {
				filtered = append(filtered, h)
			}
		}
		b.handlers[et] = filtered
	}
}

// Publish enqueues events for asynchronous dispatch. It only blocks
// when the queue is full.
func (b *Bus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		select {
		case b.queue <- e:
		case <-ctx.Done():
			return fmt.Errorf("event bus publish cancelled: %w", ctx.Err())
		case <-b.done:
			return fmt.Errorf("event bus is stopped")
		}
	}
	return nil
}

// Start launches the dispatch worker
func (b *Bus) Start(_ context.Context) error {
	b.startOnce.Do(func() {
		b.wg.Add(1)
		go b.dispatchLoop()
	})
	return nil
}

// Stop drains the queue and stops the worker
func (b *Bus) Stop(ctx context.Context) error {
	b.stopOnce.Do(func() {
		close(b.done)
	})

	finished := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop timed out: %w", ctx.Err())
	}
}

func (b *Bus) dispatchLoop() {
	defer b.wg.Done()
	for {
		select {
		case e := <-b.queue:
			b.dispatch(e)
		case <-b.done:
			// Drain whatever is still queued before exiting.
			for {
				select {
				case e := <-b.queue:
					b.dispatch(e)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) dispatch(event shared.DomainEvent) {
	b.mu.RLock()
	handlers := make([]shared.EventHandler, len(b.handlers[event.EventType()]))
	copy(handlers, b.handlers[event.EventType()])
	b.mu.RUnlock()

	for _, h := range handlers {
		b.invoke(h, event)
	}
}

func (b *Bus) invoke(handler shared.EventHandler, event shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaultHandlerTimeout)
	defer cancel()

	if err := handler.Handle(ctx, event); err != nil {
		b.logger.Error("event handler failed",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err))
	}
}

var _ shared.EventBus = (*Bus)(nil)
