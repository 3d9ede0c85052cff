package parsers

import (
	"regexp"
	"time"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var gameViewRE = regexp.MustCompile(`CurRunView\s*=?=?\s*(\w+)`)

// GameViewParser dedupes consecutive identical views, matching the
// original's _last_view guard. Unlike every other parser it stamps events
// with receipt time rather than a timestamp parsed from the line, because
// the original line carries none.
type GameViewParser struct {
	parsing.Base
	lastView string
}

func NewGameViewParser() *GameViewParser {
	return &GameViewParser{Base: parsing.NewBase("game_view", 64)}
}

func (p *GameViewParser) FeedLine(line string) {
	m := gameViewRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	view := m[1]
	if view == p.lastView {
		return
	}
	p.lastView = view

	p.Emit(events.GameViewEvent{
		Timestamp: time.Now().UTC(),
		View:      view,
	})
}
