package services

import (
	"context"
	"testing"
	"time"

	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/invmodel"
)

func newTestInventoryService(t *testing.T) *InventoryService {
	t.Helper()
	bus := eventbus.New()
	svc := NewInventoryService(NewBase(nil, bus, "inventory"), time.Hour)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// There is no DB in these tests: drop any dirty slots so Stop's final
	// flush has nothing to write.
	t.Cleanup(func() {
		svc.dirtyMu.Lock()
		svc.dirty = map[invmodel.Slot]struct{}{}
		svc.dirtyMu.Unlock()
		svc.Stop(context.Background())
	})
	return svc
}

func TestInventoryServiceOnItemChangeSetsSlotAndPublishes(t *testing.T) {
	svc := newTestInventoryService(t)

	var published events.InventoryUpdateEvent
	svc.Bus.Subscribe(eventbus.EventInventoryUpdate, func(_ context.Context, evt eventbus.Event) {
		published = evt.(events.InventoryUpdateEvent)
	})

	svc.Bus.Publish(context.Background(), events.ItemChangeEvent{
		Action: events.ItemChangeAdd, ItemID: 42, Amount: 3, Page: 1, Slot: 2, Name: "Gem", Category: "currency",
	})

	entry, ok := svc.inv.Get(invmodel.Slot{Page: 1, Slot: 2})
	if !ok || entry.ItemID != 42 || entry.Quantity != 3 {
		t.Fatalf("expected slot (1,2) to hold item 42 x3, got %+v ok=%v", entry, ok)
	}
	if published.Inventory == nil {
		t.Fatal("expected an InventoryUpdateEvent to be published")
	}
}

func TestInventoryServiceOnItemChangeDeleteRemovesSlot(t *testing.T) {
	svc := newTestInventoryService(t)
	svc.inv.Set(invmodel.Slot{Page: 0, Slot: 0}, invmodel.Entry{ItemID: 1, Quantity: 5})

	svc.Bus.Publish(context.Background(), events.ItemChangeEvent{
		Action: events.ItemChangeDelete, ItemID: 1, Page: 0, Slot: 0,
	})

	if _, ok := svc.inv.Get(invmodel.Slot{Page: 0, Slot: 0}); ok {
		t.Fatal("expected slot (0,0) to be removed")
	}
}

func TestInventoryServiceOnBagModifyPreservesNameForSameItem(t *testing.T) {
	svc := newTestInventoryService(t)
	svc.inv.Set(invmodel.Slot{Page: 0, Slot: 0}, invmodel.Entry{ItemID: 7, Name: "Orb", Category: "currency", Quantity: 1})

	svc.Bus.Publish(context.Background(), events.BagModifyEvent{Page: 0, Slot: 0, ItemID: 7, Quantity: 9})

	entry, ok := svc.inv.Get(invmodel.Slot{Page: 0, Slot: 0})
	if !ok || entry.Name != "Orb" || entry.Quantity != 9 {
		t.Fatalf("expected name preserved and quantity updated to 9, got %+v", entry)
	}
}

func TestInventoryServiceOnRequestInventoryPublishesSnapshot(t *testing.T) {
	svc := newTestInventoryService(t)
	svc.inv.Set(invmodel.Slot{Page: 0, Slot: 0}, invmodel.Entry{ItemID: 1, Quantity: 1})

	var snapshot *invmodel.Inventory
	svc.Bus.Subscribe(eventbus.EventInventorySnapshot, func(_ context.Context, evt eventbus.Event) {
		snapshot = evt.(events.InventorySnapshotEvent).Snapshot
	})

	svc.Bus.Publish(context.Background(), events.RequestInventoryEvent{Requester: "test"})

	if snapshot == nil {
		t.Fatal("expected a snapshot to be published")
	}
	if _, ok := snapshot.Get(invmodel.Slot{Page: 0, Slot: 0}); !ok {
		t.Fatal("expected the snapshot to carry the live slot")
	}
}

func TestInventoryServiceOnGameViewIgnoresNonFightView(t *testing.T) {
	svc := newTestInventoryService(t)
	// A flush would take the pending slot out of the dirty set, so it must
	// still be there afterwards.
	svc.markDirty(invmodel.Slot{Page: 0, Slot: 0})

	svc.Bus.Publish(context.Background(), events.GameViewEvent{View: "SomeOtherCtrl"})

	svc.dirtyMu.Lock()
	_, pending := svc.dirty[invmodel.Slot{Page: 0, Slot: 0}]
	svc.dirtyMu.Unlock()
	if !pending {
		t.Fatal("expected a non-fight view to leave the dirty slot unflushed")
	}
}

func TestInventoryServiceOnGameViewFlushIsNoopWhenNothingDirty(t *testing.T) {
	svc := newTestInventoryService(t)
	// Nothing dirty, so flush() returns before touching the nil DB.
	svc.Bus.Publish(context.Background(), events.GameViewEvent{View: "Dungeon_FightCtrl"})
}
