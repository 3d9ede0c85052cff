package services

import (
	"context"
	"testing"
	"time"

	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/events"
)

func newTestMarketService(t *testing.T) *MarketService {
	t.Helper()
	bus := eventbus.New()
	inv := NewInventoryService(NewBase(nil, bus, "inventory"), time.Hour)
	svc := NewMarketService(NewBase(nil, bus, "market"), inv)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return svc
}

func TestMarketServiceOpensOnAuctionHouseView(t *testing.T) {
	svc := newTestMarketService(t)

	svc.Bus.Publish(context.Background(), events.GameViewEvent{View: "Fullscreen/AuctionHouseCtrl"})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if !svc.isOpen {
		t.Fatal("expected the market to be open")
	}
	if svc.snapshot == nil {
		t.Fatal("expected a snapshot to be taken on open")
	}
}

func TestMarketServiceIgnoresConfirmDialog(t *testing.T) {
	svc := newTestMarketService(t)

	svc.Bus.Publish(context.Background(), events.GameViewEvent{View: "Fullscreen/AuctionHouseConfirmCtrl"})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.isOpen {
		t.Fatal("expected a Confirm dialog view to be ignored entirely")
	}
}

func TestMarketServiceClosesOnNonAuctionHouseView(t *testing.T) {
	svc := newTestMarketService(t)

	svc.Bus.Publish(context.Background(), events.GameViewEvent{View: "Fullscreen/AuctionHouseCtrl"})
	svc.Bus.Publish(context.Background(), events.GameViewEvent{View: "Fullscreen/MainMenuCtrl"})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.isOpen {
		t.Fatal("expected the market to close on an unrelated view")
	}
	if svc.snapshot != nil {
		t.Fatal("expected the snapshot to be cleared on close")
	}
}

func TestMarketServiceBatchesConsecutiveSameItemChanges(t *testing.T) {
	svc := newTestMarketService(t)
	svc.Bus.Publish(context.Background(), events.GameViewEvent{View: "Fullscreen/AuctionHouseCtrl"})

	now := time.Now()
	svc.Bus.Publish(context.Background(), events.ItemChangeEvent{
		Timestamp: now, ItemID: 7, Amount: 3, Page: 0, Slot: 0, Name: "Orb", Category: "currency",
	})
	svc.Bus.Publish(context.Background(), events.ItemChangeEvent{
		Timestamp: now.Add(time.Millisecond), ItemID: 7, Amount: 5, Page: 0, Slot: 0, Name: "Orb", Category: "currency",
	})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if !svc.haveLast || svc.lastItemID != 7 {
		t.Fatalf("expected a pending batch for item 7, got haveLast=%v lastItemID=%d", svc.haveLast, svc.lastItemID)
	}
	if svc.totalQuantity != 5 {
		t.Fatalf("expected totalQuantity to sum the cross-slot deltas (+3 then +2 = 5), got %d", svc.totalQuantity)
	}
}

func TestMarketServiceIgnoresItemChangeWhileClosed(t *testing.T) {
	svc := newTestMarketService(t)

	svc.Bus.Publish(context.Background(), events.ItemChangeEvent{ItemID: 1, Amount: 1, Page: 0, Slot: 0})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.haveLast {
		t.Fatal("expected ITEM_CHANGE to be ignored while the market is closed")
	}
}
