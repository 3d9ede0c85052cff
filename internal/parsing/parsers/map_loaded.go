package parsers

import (
	"regexp"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var mapLoadedRE = regexp.MustCompile(
	`\[(\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}):\d+\]\[\d+\]GameLog: Display: \[Game\] SceneLevelMgr@ OpenMainWorld END! InMainLevelPath = (.+)`,
)

type MapLoadedParser struct {
	parsing.Base
}

func NewMapLoadedParser() *MapLoadedParser {
	return &MapLoadedParser{Base: parsing.NewBase("map_loaded", 32)}
}

func (p *MapLoadedParser) FeedLine(line string) {
	m := mapLoadedRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	p.Emit(events.MapLoadedEvent{
		Timestamp: parseTimestamp(m[1]),
		LevelPath: m[2],
	})
}
