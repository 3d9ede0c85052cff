package parsers

import (
	"regexp"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var gamePauseRE = regexp.MustCompile(
	`\[(\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}):\d+\]\[\d+\]GameLog: Display: \[Game\] UGameMgr::(AddGamePausedForUI|RemovePausedForUI)\(\)`,
)

type GamePauseParser struct {
	parsing.Base
}

func NewGamePauseParser() *GamePauseParser {
	return &GamePauseParser{Base: parsing.NewBase("game_pause", 16)}
}

func (p *GamePauseParser) FeedLine(line string) {
	m := gamePauseRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	p.Emit(events.GamePauseEvent{
		Timestamp: parseTimestamp(m[1]),
		IsPaused:  m[2] == "AddGamePausedForUI",
	})
}
