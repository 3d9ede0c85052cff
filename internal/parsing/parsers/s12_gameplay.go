package parsers

import (
	"regexp"
	"strconv"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var s12GameplayRE = regexp.MustCompile(
	`\[(\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}):\d+\]\[\s*\d+\]GameLog: Display: \[Game\] UGamePlayMgr::PlayS12GamePlayBGM layer=(\d+)`,
)

type S12GameplayParser struct {
	parsing.Base
}

func NewS12GameplayParser() *S12GameplayParser {
	return &S12GameplayParser{Base: parsing.NewBase("s12_gameplay", 16)}
}

func (p *S12GameplayParser) FeedLine(line string) {
	m := s12GameplayRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	layer, _ := strconv.Atoi(m[2])
	p.Emit(events.S12GameplayEvent{
		Timestamp: parseTimestamp(m[1]),
		Layer:     layer,
	})
}
