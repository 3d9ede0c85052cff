/**
 * @description
 * ItemChange@ parser. Grounded verbatim on the original source's
 * parsing/parsers/item_change.py regex.
 */

package parsers

import (
	"regexp"
	"strconv"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/itemdb"
	"github.com/oracle-observer/backend/internal/parsing"
)

var itemChangeRE = regexp.MustCompile(
	`\[(\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}):\d+\]\[\s*\d+\]GameLog:\s*Display:\s*\[Game\]\s*ItemChange@\s+(Add|Update|Delete)\s+Id=(\d+)_\S+(?:\s+BagNum=(\d+))?\s+in\s+PageId=(\d+)\s+SlotId=(\d+)`,
)

type ItemChangeParser struct {
	parsing.Base
}

func NewItemChangeParser() *ItemChangeParser {
	return &ItemChangeParser{Base: parsing.NewBase("item_change", 256)}
}

func (p *ItemChangeParser) FeedLine(line string) {
	m := itemChangeRE.FindStringSubmatch(line)
	if m == nil {
		return
	}

	itemID, _ := strconv.Atoi(m[3])
	amount := 0
	if m[4] != "" {
		amount, _ = strconv.Atoi(m[4])
	}
	page, _ := strconv.Atoi(m[5])
	slot, _ := strconv.Atoi(m[6])

	entry := itemdb.Lookup(itemID)

	p.Emit(events.ItemChangeEvent{
		Timestamp: parseTimestamp(m[1]),
		Action:    events.ItemChangeAction(m[2]),
		ItemID:    itemID,
		Amount:    amount,
		Page:      page,
		Slot:      slot,
		Name:      entry.Name,
		Category:  entry.Category,
	})
}
