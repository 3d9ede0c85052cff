/**
 * @description
 * TransitionStyle parser. In the original source this parser bypassed the
 * shared ParserBase emit/results contract; normalized here to use
 * Base.Emit like every other parser.
 */

package parsers

import (
	"regexp"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var transitionStyleRE = regexp.MustCompile(
	`\[(\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}):\d+\]\[\s*\d+\]GameLog: Display: \[Game\] TransitionMgr@ShowTransition TransitionStyle = (\S+)`,
)

type TransitionStyleParser struct {
	parsing.Base
}

func NewTransitionStyleParser() *TransitionStyleParser {
	return &TransitionStyleParser{Base: parsing.NewBase("transition_style", 16)}
}

func (p *TransitionStyleParser) FeedLine(line string) {
	m := transitionStyleRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	p.Emit(events.TransitionStyleEvent{
		Timestamp: parseTimestamp(m[1]),
		Style:     m[2],
	})
}
