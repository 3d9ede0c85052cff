package parsers

import (
	"regexp"
	"strconv"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var expUpdateRE = regexp.MustCompile(
	`\[(\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}):\d+\]\[\d+\]GameLog: Display: \[Game\] ExpMgr@UpdateExp Percent:(\d+) (\d+)`,
)

type ExpUpdateParser struct {
	parsing.Base
}

func NewExpUpdateParser() *ExpUpdateParser {
	return &ExpUpdateParser{Base: parsing.NewBase("exp_update", 64)}
}

func (p *ExpUpdateParser) FeedLine(line string) {
	m := expUpdateRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	exp, _ := strconv.Atoi(m[2])
	level, _ := strconv.Atoi(m[3])
	p.Emit(events.ExpUpdateEvent{
		Timestamp:  parseTimestamp(m[1]),
		Experience: exp,
		Level:      level,
	})
}
