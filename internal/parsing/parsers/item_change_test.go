package parsers

import (
	"testing"

	"github.com/oracle-observer/backend/internal/events"
)

func TestItemChangeParserEmitsOnMatch(t *testing.T) {
	p := NewItemChangeParser()
	p.FeedLine(`[2026.01.15-10.30.00:123][  0]GameLog: Display: [Game] ItemChange@ Add Id=12345_Gem BagNum=3 in PageId=1 SlotId=7`)

	select {
	case evt := <-p.Results():
		ic, ok := evt.(events.ItemChangeEvent)
		if !ok {
			t.Fatalf("expected an ItemChangeEvent, got %T", evt)
		}
		if ic.ItemID != 12345 || ic.Amount != 3 || ic.Page != 1 || ic.Slot != 7 {
			t.Fatalf("unexpected fields: %+v", ic)
		}
		if ic.Action != events.ItemChangeAction("Add") {
			t.Fatalf("unexpected action: %v", ic.Action)
		}
	default:
		t.Fatal("expected an event to be emitted")
	}
}

func TestItemChangeParserIgnoresNonMatchingLines(t *testing.T) {
	p := NewItemChangeParser()
	p.FeedLine("this line matches nothing")

	select {
	case evt := <-p.Results():
		t.Fatalf("expected no event, got %v", evt)
	default:
	}
}

func TestItemChangeParserDeleteHasNoBagNum(t *testing.T) {
	p := NewItemChangeParser()
	p.FeedLine(`[2026.01.15-10.30.00:123][  0]GameLog: Display: [Game] ItemChange@ Delete Id=99_Thing in PageId=0 SlotId=2`)

	select {
	case evt := <-p.Results():
		ic := evt.(events.ItemChangeEvent)
		if ic.Amount != 0 {
			t.Fatalf("expected Amount 0 when BagNum is absent, got %d", ic.Amount)
		}
		if ic.Action != events.ItemChangeAction("Delete") {
			t.Fatalf("unexpected action: %v", ic.Action)
		}
	default:
		t.Fatal("expected an event to be emitted")
	}
}
