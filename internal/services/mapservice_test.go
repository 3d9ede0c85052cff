package services

import (
	"testing"

	"github.com/oracle-observer/backend/internal/invmodel"
)

type fakePriceLookup map[int]float64

func (f fakePriceLookup) GetPrice(itemID int) float64 { return f[itemID] }

func TestMapServiceSummarizeValuesEveryDelta(t *testing.T) {
	s := &MapService{prices: fakePriceLookup{1: 2.5, 2: 10}}

	currency, itemsGained := s.summarize(map[int]int{
		1: 4,  // gained 4 of item 1 at 2.5 each = 10
		2: -3, // lost 3 of item 2 at 10 each = -30
		3: 1,  // gained but unpriced, contributes 0 currency
	})

	if itemsGained != 2 {
		t.Fatalf("expected 2 net-positive items, got %d", itemsGained)
	}
	if currency != -20 {
		t.Fatalf("expected currency -20 (10 gained - 30 lost), got %v", currency)
	}
}

func TestMapServiceSummarizeWithNilPriceLookup(t *testing.T) {
	s := &MapService{prices: nil}

	currency, itemsGained := s.summarize(map[int]int{1: 5})
	if itemsGained != 1 {
		t.Fatalf("expected 1 net-positive item, got %d", itemsGained)
	}
	if currency != 0 {
		t.Fatalf("expected currency 0 with no price lookup, got %v", currency)
	}
}

func TestMapServiceSummarizeWithNoChanges(t *testing.T) {
	s := &MapService{prices: fakePriceLookup{}}
	currency, itemsGained := s.summarize(map[int]int{})
	if currency != 0 || itemsGained != 0 {
		t.Fatalf("expected zero values for an empty change set, got currency=%v items=%d", currency, itemsGained)
	}
}

func TestMapServiceEntryCostSumsConsumedItems(t *testing.T) {
	s := &MapService{prices: fakePriceLookup{1: 3, 2: 5}}

	cost := s.entryCost([]invmodel.Entry{
		{ItemID: 1, Quantity: 2}, // 2*3 = 6
		{ItemID: 2, Quantity: 1}, // 1*5 = 5
	})

	if cost != 11 {
		t.Fatalf("expected entry cost 11, got %v", cost)
	}
}

func TestMapServiceEntryCostWithNilPriceLookup(t *testing.T) {
	s := &MapService{prices: nil}
	cost := s.entryCost([]invmodel.Entry{{ItemID: 1, Quantity: 4}})
	if cost != 0 {
		t.Fatalf("expected entry cost 0 with no price lookup, got %v", cost)
	}
}
