/**
 * @description
 * Ping parser. In the original source this parser bypassed the shared
 * ParserBase emit/results contract; normalized here to use Base.Emit like
 * every other parser. Forwarded to WebSocket clients only — no domain
 * service consumes it, matching the original.
 */

package parsers

import (
	"regexp"
	"strconv"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var pingRE = regexp.MustCompile(
	`\[(\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}):\d+\]\[\d+\]GameLog: Display: \[Game\] TCP Ping Result: (\d+)`,
)

type PingParser struct {
	parsing.Base
}

func NewPingParser() *PingParser {
	return &PingParser{Base: parsing.NewBase("ping", 32)}
}

func (p *PingParser) FeedLine(line string) {
	m := pingRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	ms, _ := strconv.Atoi(m[2])
	p.Emit(events.PingEvent{
		Timestamp: parseTimestamp(m[1]),
		PingMS:    ms,
	})
}
