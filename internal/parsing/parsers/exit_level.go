/**
 * @description
 * ExitLevel parser. The original source splits the timestamp and marker
 * into two independent regexes (a shared 3-group timestamp pattern plus a
 * standalone ExitLevel marker) rather than one combined regex; replicated
 * here rather than merged, since other FSM parsers reuse the same
 * 3-group timestamp shape independently.
 */

package parsers

import (
	"regexp"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var (
	exitLevelTimestampRE = regexp.MustCompile(`\[(\d{4}\.\d{2}\.\d{2})-(\d{2}\.\d{2}\.\d{2}):(\d{3})]`)
	exitLevelMarkerRE    = regexp.MustCompile(`UGameMgr::ExitLevel\(\)`)
)

type ExitLevelParser struct {
	parsing.Base
}

func NewExitLevelParser() *ExitLevelParser {
	return &ExitLevelParser{Base: parsing.NewBase("exit_level", 32)}
}

func (p *ExitLevelParser) FeedLine(line string) {
	if !exitLevelMarkerRE.MatchString(line) {
		return
	}
	ts := exitLevelTimestampRE.FindStringSubmatch(line)
	if ts == nil {
		return
	}
	p.Emit(events.ExitLevelEvent{Timestamp: parseTimestampMillis(ts[1], ts[2], ts[3])})
}
