/**
 * @description
 * StageAffix parser: a block-structured FSM that collects AffixInfos...
 * OnEnterAreaEnd() blocks, tracking the current level id independently via
 * its own EnterLevel(N) marker — a *different* regex from the one in
 * enter_level.go despite sharing a name in the original source, since the
 * two parsers serve genuinely distinct purposes. Grounded verbatim on the
 * original source's parsing/parsers/stage_affix.py.
 */

package parsers

import (
	"regexp"
	"strconv"
	"time"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var (
	stageAffixTimestampRE  = regexp.MustCompile(`\[(\d{4}\.\d{2}\.\d{2})-(\d{2}\.\d{2}\.\d{2}):(\d{3})]`)
	stageAffixEnterLevelRE = regexp.MustCompile(`EnterLevel\((\d+)\)`)
	affixListStartRE       = regexp.MustCompile(`AffixInfos`)
	dangerNumbersRE        = regexp.MustCompile(`\+DangerNumbers`)
	affixIDRE              = regexp.MustCompile(`\+Id\s*\[(\d+)\]`)
	affixDescriptionRE     = regexp.MustCompile(`\+Description\s*\[(.*?)\]`)
	affixListEndRE         = regexp.MustCompile(`OnEnterAreaEnd\(\)`)
)

type StageAffixParser struct {
	parsing.Base

	currentLevelID int

	collecting      bool
	blockTimestamp  time.Time
	pendingAffixes  []events.AffixInfo
	currentAffixID  string
	currentAffixDesc string
	haveCurrentAffix bool
}

func NewStageAffixParser() *StageAffixParser {
	return &StageAffixParser{Base: parsing.NewBase("stage_affix", 32)}
}

func (p *StageAffixParser) FeedLine(line string) {
	if m := stageAffixEnterLevelRE.FindStringSubmatch(line); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			p.currentLevelID = id
		}
	}

	switch {
	case affixListStartRE.MatchString(line):
		p.collecting = true
		p.pendingAffixes = nil
		p.haveCurrentAffix = false
		p.currentAffixID = ""
		p.currentAffixDesc = ""
		if ts := stageAffixTimestampRE.FindStringSubmatch(line); ts != nil {
			p.blockTimestamp = parseTimestampMillis(ts[1], ts[2], ts[3])
		} else {
			p.blockTimestamp = time.Now().UTC()
		}

	case affixListEndRE.MatchString(line):
		if !p.collecting {
			return
		}
		p.saveCurrentAffix()
		if len(p.pendingAffixes) > 0 && p.currentLevelID != 0 && !p.blockTimestamp.IsZero() {
			p.Emit(events.StageAffixEvent{
				Timestamp: p.blockTimestamp,
				LevelID:   p.currentLevelID,
				Affixes:   append([]events.AffixInfo(nil), p.pendingAffixes...),
			})
		}
		p.resetBlock()

	case dangerNumbersRE.MatchString(line):
		if !p.collecting {
			return
		}
		p.saveCurrentAffix()
		p.currentAffixID = ""
		p.currentAffixDesc = ""
		p.haveCurrentAffix = false

	case affixDescriptionRE.MatchString(line):
		if !p.collecting {
			return
		}
		m := affixDescriptionRE.FindStringSubmatch(line)
		p.currentAffixDesc = m[1]

	case affixIDRE.MatchString(line):
		if !p.collecting {
			return
		}
		m := affixIDRE.FindStringSubmatch(line)
		p.currentAffixID = m[1]
		p.haveCurrentAffix = true
	}
}

func (p *StageAffixParser) saveCurrentAffix() {
	if !p.haveCurrentAffix {
		return
	}
	p.pendingAffixes = append(p.pendingAffixes, events.AffixInfo{
		AffixID:     p.currentAffixID,
		Description: p.currentAffixDesc,
	})
	p.haveCurrentAffix = false
}

func (p *StageAffixParser) resetBlock() {
	p.collecting = false
	p.pendingAffixes = nil
	p.currentAffixID = ""
	p.currentAffixDesc = ""
	p.haveCurrentAffix = false
	p.blockTimestamp = time.Time{}
}
