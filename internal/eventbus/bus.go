/**
 * @description
 * The canonical in-process typed event bus. Every domain service and
 * parser-registry consumer subscribes/publishes through one Bus instance.
 *
 * Grounded on the original source's events/event_bus.py: Publish snapshots
 * the subscriber slice under a lock, then fans out to every subscriber
 * concurrently, recovering and logging each subscriber's failure
 * independently so one bad handler never blocks the others or the
 * publisher.
 *
 * @dependencies
 * - standard "sync", "context"
 * - internal/logger
 */

package eventbus

import (
	"context"
	"sync"

	"github.com/oracle-observer/backend/internal/logger"
)

// Handler receives a published Event. Handlers run concurrently with one
// another; they must not assume exclusive access to shared state without
// their own locking.
type Handler func(ctx context.Context, evt Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is the canonical publish/subscribe dispatcher.
type Bus struct {
	mu          sync.Mutex
	subscribers map[EventType][]subscription
	nextID      uint64
	log         *logger.Logger
}

// New constructs an empty Bus.
func New() *Bus {
	return &Bus{
		subscribers: make(map[EventType][]subscription),
		log:         logger.New("eventbus"),
	}
}

// Subscription is an opaque handle returned by Subscribe, used to
// Unsubscribe later.
type Subscription struct {
	eventType EventType
	id        uint64
}

// Subscribe registers handler to run whenever an event of eventType is
// published. Returns a Subscription usable with Unsubscribe.
func (b *Bus) Subscribe(eventType EventType, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subscribers[eventType] = append(b.subscribers[eventType], subscription{id: id, handler: handler})
	return Subscription{eventType: eventType, id: id}
}

// Unsubscribe removes a previously-registered subscription.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[sub.eventType]
	for i, s := range subs {
		if s.id == sub.id {
			b.subscribers[sub.eventType] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Publish fans out evt to every subscriber of its Type, concurrently, and
// waits for all of them to finish. A subscriber that panics is recovered
// and logged; it never blocks or fails the others.
func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subscribers[evt.Type()]))
	copy(subs, b.subscribers[evt.Type()])
	b.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(subs))
	for _, s := range subs {
		go func(s subscription) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("subscriber panicked handling %s: %v", evt.Type(), r)
				}
			}()
			s.handler(ctx, evt)
		}(s)
	}
	wg.Wait()
}

// Shutdown clears every subscription, matching the original's
// EventBus.shutdown().
func (b *Bus) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = make(map[EventType][]subscription)
}
