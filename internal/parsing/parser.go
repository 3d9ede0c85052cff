/**
 * @description
 * Parser contract. Every parser in internal/parsing/parsers implements this
 * single, consistent interface — normalizing an inconsistency in the
 * original source, where three parsers (world_transition, ping,
 * transition_style) bypassed the shared ParserBase._emit/results()
 * contract and managed their own ad hoc queue+event pattern. Here every
 * parser, stateless or FSM-based, emits onto the same buffered channel.
 *
 * @dependencies
 * - internal/eventbus
 */

package parsing

import "github.com/oracle-observer/backend/internal/eventbus"

// Parser consumes log lines one at a time and emits zero or more events.
type Parser interface {
	// Name identifies the parser for logging and the optional rotating
	// event log.
	Name() string
	// FeedLine processes a single log line. Implementations must not
	// block; any produced events are pushed onto the channel returned by
	// Results.
	FeedLine(line string)
	// Results returns the channel this parser emits events on.
	Results() <-chan eventbus.Event
	// Close releases the parser's output channel. Called once, after the
	// registry guarantees no further FeedLine calls will arrive.
	Close()
}

// Base implements the emit/Results/Close machinery shared by every
// parser. Embed it and call emit from FeedLine.
type Base struct {
	name string
	out  chan eventbus.Event
}

// NewBase constructs a Base with a buffered output channel.
func NewBase(name string, bufSize int) Base {
	return Base{name: name, out: make(chan eventbus.Event, bufSize)}
}

func (b *Base) Name() string { return b.name }

func (b *Base) Results() <-chan eventbus.Event { return b.out }

func (b *Base) Close() { close(b.out) }

// Emit pushes evt onto the output channel. Blocks if the registry's drain
// loop has fallen behind — by design, parsers never drop events.
func (b *Base) Emit(evt eventbus.Event) {
	b.out <- evt
}
