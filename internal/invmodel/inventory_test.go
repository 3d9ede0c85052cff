package invmodel

import "testing"

func TestChangeItemReturnsNetCrossSlotDelta(t *testing.T) {
	inv := New()

	delta := inv.ChangeItem(Slot{Page: 0, Slot: 0}, 100, "Potion", "consumable", 5)
	if delta != 5 {
		t.Fatalf("expected +5 on first insert, got %d", delta)
	}

	// Moving 3 of the 5 to a second slot arrives as two slot updates; their
	// deltas (+3, then -3) must net to zero.
	moveIn := inv.ChangeItem(Slot{Page: 0, Slot: 1}, 100, "Potion", "consumable", 3)
	delta = inv.ChangeItem(Slot{Page: 0, Slot: 0}, 100, "Potion", "consumable", 2)
	if moveIn+delta != 0 {
		t.Fatalf("expected a same-item slot split to net to zero, got %d", moveIn+delta)
	}

	delta = inv.ChangeItem(Slot{Page: 0, Slot: 0}, 100, "Potion", "consumable", 0)
	if delta != -2 {
		t.Fatalf("expected removing a slot to report -2, got %d", delta)
	}
}

func TestGetAndDelete(t *testing.T) {
	inv := New()
	s := Slot{Page: 1, Slot: 2}
	inv.Set(s, Entry{ItemID: 7, Name: "Gem", Quantity: 1})

	if _, ok := inv.Get(s); !ok {
		t.Fatal("expected entry to be present after Set")
	}

	inv.Delete(s)
	if _, ok := inv.Get(s); ok {
		t.Fatal("expected entry to be gone after Delete")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	inv := New()
	s := Slot{Page: 0, Slot: 0}
	inv.Set(s, Entry{ItemID: 1, Quantity: 1})

	clone := inv.Copy()
	inv.Set(s, Entry{ItemID: 1, Quantity: 99})

	e, ok := clone.Get(s)
	if !ok || e.Quantity != 1 {
		t.Fatalf("expected clone to be unaffected by later mutation, got %+v", e)
	}
}

func TestCompareWithReportsOnlyChangedItems(t *testing.T) {
	start := New()
	start.Set(Slot{Page: 0, Slot: 0}, Entry{ItemID: 1, Quantity: 10})
	start.Set(Slot{Page: 0, Slot: 1}, Entry{ItemID: 2, Quantity: 3})

	end := start.Copy()
	end.Set(Slot{Page: 0, Slot: 0}, Entry{ItemID: 1, Quantity: 4})  // consumed 6
	end.Set(Slot{Page: 0, Slot: 2}, Entry{ItemID: 3, Quantity: 2}) // new item picked up

	changes := start.CompareWith(end)

	if changes[1] != -6 {
		t.Fatalf("expected item 1 delta -6, got %d", changes[1])
	}
	if changes[3] != 2 {
		t.Fatalf("expected new item 3 delta +2, got %d", changes[3])
	}
	if _, ok := changes[2]; ok {
		t.Fatalf("expected unchanged item 2 to be absent from the diff, got %d", changes[2])
	}
}

func TestCompareWithEmptyInventoriesYieldsNoChanges(t *testing.T) {
	a, b := New(), New()
	if changes := a.CompareWith(b); len(changes) != 0 {
		t.Fatalf("expected no changes between two empty inventories, got %v", changes)
	}
}
