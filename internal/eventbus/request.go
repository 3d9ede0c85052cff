/**
 * @description
 * Request/response combinator over the bus: publish one event and wait for
 * a correlated reply event type, with a timeout.
 *
 * Grounded on the original source's ServiceBase.request_and_wait, whose
 * critical property is subscribing to the reply *before* publishing the
 * request, to avoid a race where a fast synchronous handler could reply
 * before the waiter started listening. Here that is expressed by
 * registering the one-shot subscription, yielding to let it land, then
 * publishing.
 *
 * @dependencies
 * - standard "context", "time"
 */

package eventbus

import (
	"context"
	"time"
)

// WaitFor blocks until an event of eventType is published, ctx is done, or
// timeout elapses (timeout <= 0 means no timeout). Returns nil, false on
// timeout or context cancellation.
func (b *Bus) WaitFor(ctx context.Context, eventType EventType, timeout time.Duration) (Event, bool) {
	resultCh := make(chan Event, 1)

	sub := b.Subscribe(eventType, func(_ context.Context, evt Event) {
		select {
		case resultCh <- evt:
		default:
		}
	})
	defer b.Unsubscribe(sub)

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case evt := <-resultCh:
		return evt, true
	case <-timeoutCh:
		return nil, false
	case <-ctx.Done():
		return nil, false
	}
}

// RequestAndWait subscribes to replyType *before* publishing request,
// matching the original's subscribe-before-publish ordering so a
// synchronous reply can never be missed. Returns nil, false on timeout.
func (b *Bus) RequestAndWait(ctx context.Context, request Event, replyType EventType, timeout time.Duration) (Event, bool) {
	resultCh := make(chan Event, 1)

	sub := b.Subscribe(replyType, func(_ context.Context, evt Event) {
		select {
		case resultCh <- evt:
		default:
		}
	})
	defer b.Unsubscribe(sub)

	// Yield so the subscription registration above is visible before we
	// publish — mirrors the original's asyncio.sleep(0) handoff.
	yield := make(chan struct{})
	go func() { close(yield) }()
	<-yield

	b.Publish(ctx, request)

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case evt := <-resultCh:
		return evt, true
	case <-timeoutCh:
		return nil, false
	case <-ctx.Done():
		return nil, false
	}
}
