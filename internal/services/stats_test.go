package services

import (
	"context"
	"testing"
	"time"

	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/invmodel"
)

func newTestStatsService(t *testing.T, prices PriceLookup) *StatsService {
	t.Helper()
	bus := eventbus.New()
	svc := NewStatsService(NewBase(nil, bus, "stats"), prices, time.Hour) // long tick: tests drive state directly
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { svc.Stop(context.Background()) })
	return svc
}

func TestStatsServiceMapFinishedCountsMapsWithoutTouchingCurrency(t *testing.T) {
	svc := newTestStatsService(t, fakePriceLookup{1: 2, 2: 5})

	svc.Bus.Publish(context.Background(), events.MapFinishedEvent{
		Duration:         60,
		InventoryChanges: map[int]int{1: 3, 2: -1},
	})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.totalMaps != 1 {
		t.Fatalf("expected totalMaps 1, got %d", svc.totalMaps)
	}
	// Currency accrues from inventory-snapshot diffs, not MAP_FINISHED's own
	// item-change summary (MapService already persists that separately).
	if svc.currencyTotal != 0 {
		t.Fatalf("expected currencyTotal untouched by MAP_FINISHED, got %v", svc.currencyTotal)
	}
}

func TestStatsServiceMapStartedSubtractsEntryCost(t *testing.T) {
	svc := newTestStatsService(t, fakePriceLookup{1: 3})

	svc.Bus.Publish(context.Background(), events.MapStartedEvent{
		LevelID:       1234,
		ConsumedItems: []invmodel.Entry{{ItemID: 1, Quantity: 2}}, // cost 2*3=6
	})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.currentMapEntryCost != 6 {
		t.Fatalf("expected currentMapEntryCost 6, got %v", svc.currentMapEntryCost)
	}
	if svc.currencyTotal != -6 {
		t.Fatalf("expected currencyTotal -6 after entry cost, got %v", svc.currencyTotal)
	}
}

func TestStatsServiceInventorySnapshotSkipsBaselineThenAccrues(t *testing.T) {
	svc := newTestStatsService(t, fakePriceLookup{1: 2})

	first := invmodel.New()
	first.Set(invmodel.Slot{Page: 0, Slot: 0}, invmodel.Entry{ItemID: 1, Quantity: 10})
	svc.Bus.Publish(context.Background(), events.InventorySnapshotEvent{Snapshot: first})

	// Second snapshot after the baseline is dropped even though it differs,
	// matching the original's "skip first comparison after baseline".
	second := invmodel.New()
	second.Set(invmodel.Slot{Page: 0, Slot: 0}, invmodel.Entry{ItemID: 1, Quantity: 50})
	svc.Bus.Publish(context.Background(), events.InventorySnapshotEvent{Snapshot: second})

	svc.mu.Lock()
	if svc.currencyTotal != 0 {
		svc.mu.Unlock()
		t.Fatalf("expected currencyTotal untouched by the post-baseline snapshot, got %v", svc.currencyTotal)
	}
	svc.mu.Unlock()

	// A normal diff against the last snapshot accrues currency.
	third := invmodel.New()
	third.Set(invmodel.Slot{Page: 0, Slot: 0}, invmodel.Entry{ItemID: 1, Quantity: 55}) // +5
	svc.Bus.Publish(context.Background(), events.InventorySnapshotEvent{Snapshot: third})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.currencyTotal != 10 {
		t.Fatalf("expected currencyTotal 10 (5 gained * price 2), got %v", svc.currencyTotal)
	}
	if svc.itemTotals[1] != 5 {
		t.Fatalf("expected itemTotals[1] 5, got %v", svc.itemTotals[1])
	}
}

func TestStatsServiceInventoryUpdateResetsBaseline(t *testing.T) {
	svc := newTestStatsService(t, fakePriceLookup{1: 2})

	loaded := invmodel.New()
	loaded.Set(invmodel.Slot{Page: 0, Slot: 0}, invmodel.Entry{ItemID: 1, Quantity: 100})
	svc.Bus.Publish(context.Background(), events.InventoryUpdateEvent{Inventory: loaded})

	next := invmodel.New()
	next.Set(invmodel.Slot{Page: 0, Slot: 0}, invmodel.Entry{ItemID: 1, Quantity: 101}) // +1
	svc.Bus.Publish(context.Background(), events.InventorySnapshotEvent{Snapshot: next})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.currencyTotal != 2 {
		t.Fatalf("expected currencyTotal 2 (1 gained * price 2) against the reloaded baseline, got %v", svc.currencyTotal)
	}
}

func TestStatsServiceIgnoresMapFinishedWhenStopped(t *testing.T) {
	svc := newTestStatsService(t, fakePriceLookup{1: 2})
	svc.Bus.Publish(context.Background(), events.StatsControlEvent{Action: events.StatsControlStop})

	svc.Bus.Publish(context.Background(), events.MapFinishedEvent{Duration: 1, InventoryChanges: map[int]int{1: 1}})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.totalMaps != 0 {
		t.Fatalf("expected no accrual while stopped, got totalMaps=%d", svc.totalMaps)
	}
}

func TestStatsServiceRestartResetsTotals(t *testing.T) {
	svc := newTestStatsService(t, fakePriceLookup{1: 2})
	svc.Bus.Publish(context.Background(), events.MapFinishedEvent{Duration: 1, InventoryChanges: map[int]int{1: 1}})
	svc.Bus.Publish(context.Background(), events.MapStartedEvent{
		ConsumedItems: []invmodel.Entry{{ItemID: 1, Quantity: 1}},
	})

	svc.Bus.Publish(context.Background(), events.StatsControlEvent{Action: events.StatsControlRestart})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.totalMaps != 0 || svc.currencyTotal != 0 {
		t.Fatalf("expected a restart to reset totals, got totalMaps=%d currencyTotal=%v", svc.totalMaps, svc.currencyTotal)
	}
}

func TestStatsServiceExpUpdateTracksGainAndLoss(t *testing.T) {
	svc := newTestStatsService(t, nil)

	svc.Bus.Publish(context.Background(), events.ExpUpdateEvent{Experience: 50, Level: 3})
	svc.Bus.Publish(context.Background(), events.ExpUpdateEvent{Experience: 70, Level: 3}) // +20
	svc.Bus.Publish(context.Background(), events.ExpUpdateEvent{Experience: 60, Level: 3}) // -10

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.expGainedTotal != 20 {
		t.Fatalf("expected expGainedTotal 20, got %v", svc.expGainedTotal)
	}
	if svc.expLostTotal != 10 {
		t.Fatalf("expected expLostTotal 10, got %v", svc.expLostTotal)
	}
}

func TestStatsServiceExpUpdateTreatsLevelUpAsFullGain(t *testing.T) {
	svc := newTestStatsService(t, nil)

	svc.Bus.Publish(context.Background(), events.ExpUpdateEvent{Experience: 95, Level: 3})
	// Level increments and percent wraps low; the raw delta would be
	// negative (5 - 95) but a level-up must count as a full gain instead.
	svc.Bus.Publish(context.Background(), events.ExpUpdateEvent{Experience: 5, Level: 4})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.expGainedTotal != 5 {
		t.Fatalf("expected expGainedTotal 5 (the new reading) after a level-up, got %v", svc.expGainedTotal)
	}
	if svc.expLostTotal != 0 {
		t.Fatalf("expected no loss recorded across a level-up, got %v", svc.expLostTotal)
	}
}

func TestStatsServicePublishExpPerHourNetsGainsAndLosses(t *testing.T) {
	svc := newTestStatsService(t, nil)

	var captured events.StatsUpdateEvent
	svc.Bus.Subscribe(eventbus.EventStatsUpdate, func(_ context.Context, evt eventbus.Event) {
		captured = evt.(events.StatsUpdateEvent)
	})

	svc.mu.Lock()
	svc.sessionStart = time.Now().Add(-time.Hour)
	svc.expGainedTotal = 100
	svc.expLostTotal = 40
	svc.mu.Unlock()

	svc.publish(context.Background())

	if captured.ExpPerHour <= 0 || captured.ExpPerHour > 70 {
		t.Fatalf("expected ExpPerHour close to net 60/h, got %v", captured.ExpPerHour)
	}
}

func TestStatsServicePriceWithNilLookupIsZero(t *testing.T) {
	svc := newTestStatsService(t, nil)
	if got := svc.price(1); got != 0 {
		t.Fatalf("expected 0 with a nil PriceLookup, got %v", got)
	}
}
