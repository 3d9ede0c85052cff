/**
 * @description
 * InventoryService owns the live, in-memory inventory (internal/invmodel)
 * and mirrors it to PostgreSQL on a dirty-slot interval, matching the
 * original source's services/inventory_service.py: the database is a
 * durable mirror, never the source of truth for reads. A player change or
 * session restore reloads that mirror back into memory and republishes it
 * as an INVENTORY_UPDATE, and the dungeon's FightCtrl view forces an
 * out-of-band flush of whatever is dirty (menus just closed, about to
 * fight).
 *
 * @dependencies
 * - internal/invmodel, internal/eventbus, internal/events, internal/models
 * - gorm.io/gorm
 */

package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/invmodel"
	"github.com/oracle-observer/backend/internal/models"
)

// InventoryService tracks the player's bag contents from ItemChange/
// BagModify parser events and flushes dirty slots to the database.
type InventoryService struct {
	Base

	inv *invmodel.Inventory

	flushInterval time.Duration
	stopCh        chan struct{}
	wg            sync.WaitGroup

	dirtyMu sync.Mutex
	dirty   map[invmodel.Slot]struct{}
}

// NewInventoryService constructs the service. flushInterval governs how
// often dirty slots are written to PostgreSQL.
func NewInventoryService(base Base, flushInterval time.Duration) *InventoryService {
	return &InventoryService{
		Base:          base,
		inv:           invmodel.New(),
		flushInterval: flushInterval,
		dirty:         map[invmodel.Slot]struct{}{},
	}
}

func (s *InventoryService) Descriptor() Descriptor {
	return Descriptor{Name: "inventory", Version: "1.0.0"}
}

func (s *InventoryService) Start(ctx context.Context) error {
	s.Bus.Subscribe(eventbus.EventItemChange, s.onItemChange)
	s.Bus.Subscribe(eventbus.EventBagModify, s.onBagModify)
	s.Bus.Subscribe(eventbus.EventRequestInventory, s.onRequestInventory)
	s.Bus.Subscribe(eventbus.EventPlayerChanged, s.onPlayerChanged)
	s.Bus.Subscribe(eventbus.EventSessionRestore, s.onSessionRestore)
	s.Bus.Subscribe(eventbus.EventGameView, s.onGameView)

	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.flushLoop(ctx)
	return nil
}

func (s *InventoryService) Stop(ctx context.Context) error {
	close(s.stopCh)
	s.wg.Wait()
	s.flush(ctx)
	return nil
}

// Snapshot returns an independent copy of the live inventory.
func (s *InventoryService) Snapshot() *invmodel.Inventory {
	return s.inv.Copy()
}

func (s *InventoryService) onItemChange(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.ItemChangeEvent)
	slot := invmodel.Slot{Page: e.Page, Slot: e.Slot}

	switch e.Action {
	case events.ItemChangeDelete:
		s.inv.Delete(slot)
	default:
		s.inv.Set(slot, invmodel.Entry{ItemID: e.ItemID, Name: e.Name, Category: e.Category, Quantity: e.Amount})
	}
	s.markDirty(slot)
	s.Bus.Publish(ctx, events.InventoryUpdateEvent{Inventory: s.inv})
}

func (s *InventoryService) onBagModify(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.BagModifyEvent)
	slot := invmodel.Slot{Page: e.Page, Slot: e.Slot}

	if existing, ok := s.inv.Get(slot); ok && existing.ItemID == e.ItemID {
		s.inv.Set(slot, invmodel.Entry{ItemID: e.ItemID, Name: existing.Name, Category: existing.Category, Quantity: e.Quantity})
	} else {
		s.inv.Set(slot, invmodel.Entry{ItemID: e.ItemID, Quantity: e.Quantity})
	}
	s.markDirty(slot)
	s.Bus.Publish(ctx, events.InventoryUpdateEvent{Inventory: s.inv})
}

func (s *InventoryService) onRequestInventory(ctx context.Context, _ eventbus.Event) {
	s.Bus.Publish(ctx, events.InventorySnapshotEvent{Snapshot: s.inv.Copy()})
}

func (s *InventoryService) onPlayerChanged(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.PlayerChangedEvent)
	s.loadInventory(e.NewPlayer)
	s.Bus.Publish(ctx, events.InventoryUpdateEvent{Inventory: s.inv})
}

func (s *InventoryService) onSessionRestore(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.SessionRestoreEvent)
	s.loadInventory(e.PlayerName)
	s.Bus.Publish(ctx, events.InventoryUpdateEvent{Inventory: s.inv})
}

// onGameView forces a dirty-slot flush once the dungeon's fight view
// appears, matching the original's "menus just closed" persist point.
func (s *InventoryService) onGameView(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.GameViewEvent)
	if !strings.Contains(e.View, "FightCtrl") {
		return
	}
	s.flush(ctx)
}

// loadInventory rebuilds the live inventory in place from whatever was
// last mirrored to PostgreSQL for playerName, discarding every slot
// currently held. Any dirty slots not yet flushed are lost, matching the
// original: a player/session change always reloads from storage.
func (s *InventoryService) loadInventory(playerName string) {
	s.dirtyMu.Lock()
	s.dirty = map[invmodel.Slot]struct{}{}
	s.dirtyMu.Unlock()

	for slot := range s.inv.Slots() {
		s.inv.Delete(slot)
	}

	player, err := s.GetOrCreatePlayer(playerName)
	if err != nil || player == nil {
		return
	}

	var rows []models.InventoryItem
	if err := s.DB.Preload("Item").Where("player_id = ?", player.ID).Find(&rows).Error; err != nil {
		return
	}

	for _, row := range rows {
		s.inv.Set(invmodel.Slot{Page: row.Page, Slot: row.Slot}, invmodel.Entry{
			ItemID: row.Item.ItemID, Name: row.Item.Name, Category: row.Item.Category, Quantity: row.Quantity,
		})
	}
}

func (s *InventoryService) markDirty(slot invmodel.Slot) {
	s.dirtyMu.Lock()
	s.dirty[slot] = struct{}{}
	s.dirtyMu.Unlock()
}

func (s *InventoryService) flushLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.flush(ctx)
		case <-s.stopCh:
			return
		}
	}
}

// flush writes every dirty slot's current entry to the inventory_items
// table, upserting on (player_id, page, slot).
func (s *InventoryService) flush(ctx context.Context) {
	s.dirtyMu.Lock()
	if len(s.dirty) == 0 {
		s.dirtyMu.Unlock()
		return
	}
	toFlush := s.dirty
	s.dirty = map[invmodel.Slot]struct{}{}
	s.dirtyMu.Unlock()

	player, err := s.GetOrCreatePlayer(s.CurrentPlayerName())
	if err != nil || player == nil {
		return
	}

	for slot := range toFlush {
		entry, ok := s.inv.Get(slot)
		if !ok {
			s.DB.Where("player_id = ? AND page = ? AND slot = ?", player.ID, slot.Page, slot.Slot).
				Delete(&models.InventoryItem{})
			continue
		}

		item := s.internItem(entry)
		var row models.InventoryItem
		err := s.DB.Where("player_id = ? AND page = ? AND slot = ?", player.ID, slot.Page, slot.Slot).First(&row).Error
		if err != nil {
			s.DB.Create(&models.InventoryItem{
				PlayerID: player.ID, ItemID: item.ID, Page: slot.Page, Slot: slot.Slot, Quantity: entry.Quantity,
			})
			continue
		}
		row.ItemID = item.ID
		row.Quantity = entry.Quantity
		s.DB.Save(&row)
	}
}

func (s *InventoryService) internItem(entry invmodel.Entry) models.Item {
	var item models.Item
	if err := s.DB.Where("item_id = ?", entry.ItemID).First(&item).Error; err == nil {
		return item
	}
	item = models.Item{ItemID: entry.ItemID, Name: entry.Name, Category: entry.Category}
	s.DB.Create(&item)
	return item
}
