package events

import (
	"context"
	"log/slog"
	"sync"
)

// Handler receives the payload published under the event name it was
// subscribed with.
type Handler func(ctx context.Context, payload any)

// Bus is a process-wide synchronous publish/subscribe registry. Handlers
// run on the publisher's goroutine in registration order; there is no
// persistence, replay or cross-process delivery.
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]*Subscription
	nextID   uint64
	log      *slog.Logger
}

type Subscription struct {
	bus   *Bus
	event string
	id    uint64
	fn    Handler
}

func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{
		handlers: make(map[string][]*Subscription),
		log:      log.With(slog.String("component", "events.bus")),
	}
}

// Subscribe registers a handler for an event name. The returned
// subscription removes exactly that handler when cancelled.
func (b *Bus) Subscribe(event string, fn Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{bus: b, event: event, id: b.nextID, fn: fn}
	b.handlers[event] = append(b.handlers[event], sub)
	return sub
}

func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[s.event]
	for i, sub := range subs {
		if sub.id == s.id {
			b.handlers[s.event] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[s.event]) == 0 {
		delete(b.handlers, s.event)
	}
}

// Publish invokes every handler registered for the event at publish
// time, synchronously. A panicking handler is recovered and logged and
// does not stop the remaining handlers.
func (b *Bus) Publish(ctx context.Context, event string, payload any) {
	b.mu.Lock()
	subs := make([]*Subscription, len(b.handlers[event]))
	copy(subs, b.handlers[event])
	b.mu.Unlock()

	for _, sub := range subs {
		b.invoke(ctx, event, sub, payload)
	}
}

func (b *Bus) invoke(ctx context.Context, event string, sub *Subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked", slog.String("event", event), slog.Any("panic", r))
		}
	}()
	sub.fn(ctx, payload)
}

// UnsubscribeAll clears handlers for the given event names, or every
// event when called with none.
func (b *Bus) UnsubscribeAll(events ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(events) == 0 {
		b.handlers = make(map[string][]*Subscription)
		return
	}
	for _, event := range events {
		delete(b.handlers, event)
	}
}
