package parsers

import (
	"regexp"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var gameMessageRE = regexp.MustCompile(
	`\[(\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}):\d+\]\[\d+\]GameLog: Display: \[Game\] MsgMgr@:Show MsgValue = (.+)`,
)

type GameMessageParser struct {
	parsing.Base
}

func NewGameMessageParser() *GameMessageParser {
	return &GameMessageParser{Base: parsing.NewBase("game_message", 32)}
}

func (p *GameMessageParser) FeedLine(line string) {
	m := gameMessageRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	p.Emit(events.GameMessageEvent{
		Timestamp: parseTimestamp(m[1]),
		Message:   m[2],
	})
}
