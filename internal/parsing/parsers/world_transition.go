/**
 * @description
 * WorldTransition parser. In the original source this parser bypassed the
 * shared ParserBase emit/results contract, managing its own ad hoc
 * list+Event pair instead. Normalized here to use the same Base.Emit
 * contract as every other parser.
 */

package parsers

import (
	"regexp"
	"strconv"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var worldTransitionRE = regexp.MustCompile(
	`\[(\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}):\d+\]\[\d+\]GameLog: Display: \[Game\] PageApplyBase@ BackFlow(\d+) IsSwitchingSubWorldToMainWorld = (true|false)`,
)

type WorldTransitionParser struct {
	parsing.Base
}

func NewWorldTransitionParser() *WorldTransitionParser {
	return &WorldTransitionParser{Base: parsing.NewBase("world_transition", 32)}
}

func (p *WorldTransitionParser) FeedLine(line string) {
	m := worldTransitionRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	backflow, _ := strconv.Atoi(m[2])
	p.Emit(events.WorldTransitionEvent{
		Timestamp:                 parseTimestamp(m[1]),
		BackFlow:                  backflow,
		IsSwitchingSubWorldToMain: m[3] == "true",
	})
}
