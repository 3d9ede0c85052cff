package parsers

import (
	"regexp"
	"strconv"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var (
	loadingTimestampRE = regexp.MustCompile(`\[(\d{4}\.\d{2}\.\d{2})-(\d{2}\.\d{2}\.\d{2}):(\d{3})]`)
	loadingProgressRE  = regexp.MustCompile(`Loading@\s+P=(\d+),S=([A-Za-z]+)\s+(\d+)%`)
)

type LoadingProgressParser struct {
	parsing.Base
}

func NewLoadingProgressParser() *LoadingProgressParser {
	return &LoadingProgressParser{Base: parsing.NewBase("loading_progress", 64)}
}

func (p *LoadingProgressParser) FeedLine(line string) {
	m := loadingProgressRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	ts := loadingTimestampRE.FindStringSubmatch(line)
	if ts == nil {
		return
	}
	page, _ := strconv.Atoi(m[1])
	percent, _ := strconv.Atoi(m[3])
	p.Emit(events.LoadingProgressEvent{
		Timestamp: parseTimestampMillis(ts[1], ts[2], ts[3]),
		Page:      page,
		Stage:     m[2],
		Percent:   percent,
	})
}
