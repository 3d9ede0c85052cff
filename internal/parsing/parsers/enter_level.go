/**
 * @description
 * EnterLevel parser: a 3-line sequence FSM (EnterLevel() marker ->
 * LevelUid/LevelType/LevelId line -> LevelPath line). Grounded verbatim on
 * the original source's parsing/parsers/enter_level.py, including its
 * state timeout (2s) and non-idle line-count guard (force reset after 6
 * lines without completing the sequence) and its two alternate forms for
 * the level-info line (LevelMgr@ LevelUid... and the LeevelLinkData typo
 * variant with a fullwidth-colon option).
 */

package parsers

import (
	"regexp"
	"strconv"
	"time"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/mapdata"
	"github.com/oracle-observer/backend/internal/parsing"
)

type enterLevelState int

const (
	enterLevelIdle enterLevelState = iota
	enterLevelGotEnter
	enterLevelGotLevelInfo
)

const (
	enterLevelStateTimeout  = 2 * time.Second
	enterLevelNonIdleLimit  = 6
)

var (
	enterLevelMarkerRE = regexp.MustCompile(
		`\[(\d{4}\.\d{2}\.\d{2})-(\d{2}\.\d{2}\.\d{2}):(\d{3})\].*GameLog: Display: \[Game\] LevelMgr@ EnterLevel$`,
	)
	enterLevelInfoRE = regexp.MustCompile(
		`\[(\d{4}\.\d{2}\.\d{2})-(\d{2}\.\d{2}\.\d{2}):(\d{3})\].*GameLog: Display: \[Game\] LevelMgr@ LevelUid, LevelType, LevelId = (\d+) (\d+) (\d+)`,
	)
	enterLevelInfoAltRE = regexp.MustCompile(
		`\[(\d{4}\.\d{2}\.\d{2})-(\d{2}\.\d{2}\.\d{2}):(\d{3})\].*GameLog: Display: \[Game\] LeevelLinkData[：:]\s*(\d+)\s+(\d+)\s+(\d+)`,
	)
	enterLevelPathRE = regexp.MustCompile(
		`\[(\d{4}\.\d{2}\.\d{2})-(\d{2}\.\d{2}\.\d{2}):(\d{3})\].*GameLog: Display: \[Game\] LevelMgr@:LevelPath, Model = (.+)`,
	)
)

type EnterLevelParser struct {
	parsing.Base

	state         enterLevelState
	stateEnteredAt time.Time
	nonIdleCount  int

	levelUID  int
	levelType int
	levelID   int
	timestamp time.Time
}

func NewEnterLevelParser() *EnterLevelParser {
	return &EnterLevelParser{Base: parsing.NewBase("enter_level", 32)}
}

func (p *EnterLevelParser) resetFSM() {
	p.state = enterLevelIdle
	p.nonIdleCount = 0
}

func (p *EnterLevelParser) FeedLine(line string) {
	if p.state != enterLevelIdle && !p.stateEnteredAt.IsZero() &&
		time.Since(p.stateEnteredAt) > enterLevelStateTimeout {
		p.resetFSM()
	}

	if p.state != enterLevelIdle {
		p.nonIdleCount++
		if p.nonIdleCount >= enterLevelNonIdleLimit {
			p.resetFSM()
			return
		}
	}

	switch p.state {
	case enterLevelIdle:
		if m := enterLevelMarkerRE.FindStringSubmatch(line); m != nil {
			p.state = enterLevelGotEnter
			p.nonIdleCount = 0
			p.stateEnteredAt = time.Now()
		}
	case enterLevelGotEnter:
		if m := enterLevelInfoRE.FindStringSubmatch(line); m != nil {
			p.captureLevelInfo(m)
			return
		}
		if m := enterLevelInfoAltRE.FindStringSubmatch(line); m != nil {
			p.captureLevelInfo(m)
			return
		}
	case enterLevelGotLevelInfo:
		if enterLevelPathRE.MatchString(line) {
			p.Emit(events.EnterLevelEvent{
				Timestamp: p.timestamp,
				LevelID:   p.levelID,
				LevelUID:  p.levelUID,
				LevelType: p.levelType,
				Map:       mapdata.Lookup(p.levelID),
			})
			p.resetFSM()
		}
	}
}

func (p *EnterLevelParser) captureLevelInfo(m []string) {
	p.timestamp = parseTimestampMillis(m[1], m[2], m[3])
	p.levelUID, _ = strconv.Atoi(m[4])
	p.levelType, _ = strconv.Atoi(m[5])
	p.levelID, _ = strconv.Atoi(m[6])
	p.state = enterLevelGotLevelInfo
}
