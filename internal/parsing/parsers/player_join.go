package parsers

import (
	"regexp"
	"strconv"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var playerJoinRE = regexp.MustCompile(
	`\[(\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}):\d+\]\[\s*\d+\]\s*GameLog: Display: \[Game\]\s+SwitchBattleAreaUtil:_JoinFight\s+([^:]+):(\d+)`,
)

type PlayerJoinParser struct {
	parsing.Base
}

func NewPlayerJoinParser() *PlayerJoinParser {
	return &PlayerJoinParser{Base: parsing.NewBase("player_join", 32)}
}

func (p *PlayerJoinParser) FeedLine(line string) {
	m := playerJoinRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	areaID, _ := strconv.Atoi(m[3])
	p.Emit(events.PlayerJoinEvent{
		Timestamp:  parseTimestamp(m[1]),
		PlayerName: m[2],
		AreaID:     areaID,
	})
}
