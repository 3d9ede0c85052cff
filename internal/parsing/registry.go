/**
 * @description
 * Parser Registry: broadcasts each tailed line to every parser, drains
 * every parser's output into one bounded, ordered channel, and publishes
 * events to the event bus in per-parser FIFO order. Optionally mirrors
 * every published event to a rotating log file.
 *
 * Grounded on the original source's parsing/router.py: one background
 * drain task per parser feeding a shared bounded queue, one publisher task
 * consuming that queue in order, feed_line broadcasting to every parser
 * without letting one parser's failure block the others.
 *
 * @dependencies
 * - internal/eventbus
 * - internal/logger
 */

package parsing

import (
	"context"
	"sync"

	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/logger"
)

const sharedQueueCapacity = 1000

// Registry owns the full set of parsers and the fan-in to the event bus.
type Registry struct {
	bus     *eventbus.Bus
	parsers []Parser
	shared  chan eventbus.Event
	log     *logger.Logger
	evtLog  *eventLog

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewRegistry constructs a Registry over parsers. If logPath is non-empty,
// every published event is additionally appended to a rotating log file.
func NewRegistry(bus *eventbus.Bus, parsers []Parser, logPath string) (*Registry, error) {
	r := &Registry{
		bus:     bus,
		parsers: parsers,
		shared:  make(chan eventbus.Event, sharedQueueCapacity),
		log:     logger.New("parser-registry"),
	}

	if logPath != "" {
		el, err := newEventLog(logPath)
		if err != nil {
			return nil, err
		}
		r.evtLog = el
	}

	return r, nil
}

// Start launches one drain goroutine per parser plus the single ordered
// publisher goroutine.
func (r *Registry) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for _, p := range r.parsers {
		r.wg.Add(1)
		go r.drainParser(ctx, p)
	}

	r.wg.Add(1)
	go r.publishLoop(ctx)
}

func (r *Registry) drainParser(ctx context.Context, p Parser) {
	defer r.wg.Done()
	for {
		select {
		case evt, ok := <-p.Results():
			if !ok {
				return
			}
			select {
			case r.shared <- evt:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *Registry) publishLoop(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case evt, ok := <-r.shared:
			if !ok {
				return
			}
			if r.evtLog != nil {
				r.evtLog.write(formatEventLine(evt))
			}
			r.bus.Publish(ctx, evt)
		case <-ctx.Done():
			return
		}
	}
}

// FeedLine broadcasts line to every parser. One parser panicking never
// blocks or prevents feeding the others.
func (r *Registry) FeedLine(line string) {
	for _, p := range r.parsers {
		r.feedOne(p, line)
	}
}

func (r *Registry) feedOne(p Parser, line string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("parser %s panicked on line: %v", p.Name(), rec)
		}
	}()
	p.FeedLine(line)
}

// Shutdown cancels every background goroutine, waits for them to exit,
// closes every parser, and closes the event log.
func (r *Registry) Shutdown() {
	if r.cancel != nil {
		r.cancel()
	}
	for _, p := range r.parsers {
		p.Close()
	}
	r.wg.Wait()
	if r.evtLog != nil {
		r.evtLog.close()
	}
}

func formatEventLine(evt eventbus.Event) string {
	return string(evt.Type())
}
