package parsers

import (
	"regexp"
	"strconv"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/parsing"
)

var bagModifyRE = regexp.MustCompile(
	`\[(\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}):\d+]\[\d+]GameLog: Display: \[Game] BagMgr@\:Modfy BagItem PageId = (\d+) SlotId = (\d+) ConfigBaseId = (\d+) Num = (\d+)`,
)

type BagModifyParser struct {
	parsing.Base
}

func NewBagModifyParser() *BagModifyParser {
	return &BagModifyParser{Base: parsing.NewBase("bag_modify", 256)}
}

func (p *BagModifyParser) FeedLine(line string) {
	m := bagModifyRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	page, _ := strconv.Atoi(m[2])
	slot, _ := strconv.Atoi(m[3])
	itemID, _ := strconv.Atoi(m[4])
	qty, _ := strconv.Atoi(m[5])

	p.Emit(events.BagModifyEvent{
		Timestamp: parseTimestamp(m[1]),
		Page:      page,
		Slot:      slot,
		ItemID:    itemID,
		Quantity:  qty,
	})
}
