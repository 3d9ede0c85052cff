/**
 * @description
 * MarketService is an open/close state machine around the in-game auction
 * house, driven off GAME_VIEW rather than a dedicated open/close event:
 * a view containing "AuctionHouse" (excluding confirmation dialogs,
 * matched by "Confirm") opens the market and snapshots the live
 * inventory into a private copy; any other view closes it. While open,
 * every ITEM_CHANGE is applied to that private copy via
 * invmodel.Inventory.ChangeItem, the cross-slot delta primitive, and
 * consecutive changes to the same item are batched into one pending
 * transaction; a change of item (or the market closing, or a >1s gap
 * between same-item changes observed on a later GAME_VIEW tick) flushes
 * the pending transaction to the database and the bus.
 *
 * Grounded on the original source's services/market_service.py.
 *
 * @dependencies
 * - internal/invmodel, internal/eventbus, internal/events, internal/models
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

// pendingFlushGap is how long a same-item batch may sit unflushed before a
// later AuctionHouse GAME_VIEW tick forces it out, matching the original's
// time_diff > 1 second check.
const pendingFlushGap = time.Second

type MarketService struct {
	Base

	inventory *InventoryService

	mu            sync.Mutex
	isOpen        bool
	snapshot      *invmodel.Inventory
	haveLast      bool
	lastItemID    int
	lastName      string
	lastCategory  string
	lastTimestamp time.Time
	totalQuantity int
}

func NewMarketService(base Base, inventory *InventoryService) *MarketService {
	return &MarketService{Base: base, inventory: inventory}
}

func (s *MarketService) Descriptor() Descriptor {
	return Descriptor{Name: "market", Version: "1.0.0", Requires: map[string]string{"inventory": ">=1.0.0"}}
}

func (s *MarketService) Start(ctx context.Context) error {
	s.Bus.Subscribe(eventbus.EventGameView, s.onGameView)
	s.Bus.Subscribe(eventbus.EventItemChange, s.onItemChange)
	return nil
}

func (s *MarketService) Stop(ctx context.Context) error { return nil }

func (s *MarketService) onGameView(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.GameViewEvent)
	if strings.Contains(e.View, "Confirm") {
		return
	}

	if strings.Contains(e.View, "AuctionHouse") {
		s.mu.Lock()
		if !s.isOpen {
			s.isOpen = true
			s.snapshot = s.inventory.Snapshot()
			s.mu.Unlock()
			s.Bus.Publish(ctx, events.MarketActionEvent{Action: events.MarketActionOpen})
			return
		}
		stale := s.haveLast && s.totalQuantity != 0 && e.Timestamp.Sub(s.lastTimestamp) > pendingFlushGap
		s.mu.Unlock()
		if stale {
			s.flushPending(ctx)
		}
		return
	}

	s.mu.Lock()
	if !s.isOpen {
		s.mu.Unlock()
		return
	}
	s.isOpen = false
	s.mu.Unlock()

	s.flushPending(ctx)

	s.mu.Lock()
	s.snapshot = nil
	s.haveLast = false
	s.totalQuantity = 0
	s.mu.Unlock()

	s.Bus.Publish(ctx, events.MarketActionEvent{Action: events.MarketActionClose})
}

func (s *MarketService) onItemChange(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.ItemChangeEvent)

	s.mu.Lock()
	if !s.isOpen || s.snapshot == nil {
		s.mu.Unlock()
		return
	}

	quantityDelta := s.snapshot.ChangeItem(invmodel.Slot{Page: e.Page, Slot: e.Slot}, e.ItemID, e.Name, e.Category, e.Amount)
	if quantityDelta == 0 {
		s.mu.Unlock()
		return
	}

	if s.haveLast && s.lastItemID == e.ItemID {
		s.totalQuantity += quantityDelta
		s.lastName, s.lastCategory, s.lastTimestamp = e.Name, e.Category, e.Timestamp
		s.mu.Unlock()
		return
	}

	var flushItemID int
	var flushName, flushCategory string
	var flushQuantity int
	shouldFlush := s.haveLast && s.totalQuantity != 0
	if shouldFlush {
		flushItemID, flushName, flushCategory, flushQuantity = s.lastItemID, s.lastName, s.lastCategory, s.totalQuantity
	}

	s.haveLast = true
	s.lastItemID = e.ItemID
	s.lastName, s.lastCategory, s.lastTimestamp = e.Name, e.Category, e.Timestamp
	s.totalQuantity = quantityDelta
	s.mu.Unlock()

	if shouldFlush {
		s.recordTransaction(ctx, flushItemID, flushName, flushCategory, flushQuantity)
	}
}

// flushPending records whatever batch is outstanding, if any, and clears it.
func (s *MarketService) flushPending(ctx context.Context) {
	s.mu.Lock()
	if !s.haveLast || s.totalQuantity == 0 {
		s.mu.Unlock()
		return
	}
	itemID, name, category, quantity := s.lastItemID, s.lastName, s.lastCategory, s.totalQuantity
	s.totalQuantity = 0
	s.mu.Unlock()

	s.recordTransaction(ctx, itemID, name, category, quantity)
}

func (s *MarketService) recordTransaction(ctx context.Context, itemID int, name, category string, quantityDelta int) {
	action := models.MarketActionGained
	eventAction := "gained"
	quantity := quantityDelta
	if quantityDelta < 0 {
		action = models.MarketActionLost
		eventAction = "lost"
		quantity = -quantityDelta
	}

	var sessionID *uint
	if sid := s.CurrentSessionID(); sid != 0 {
		sessionID = &sid
	}
	player, _ := s.GetOrCreatePlayer(s.CurrentPlayerName())
	var playerID *uint
	if player != nil {
		playerID = &player.ID
	}

	item := s.internItem(itemID, name, category)
	tx := models.MarketTransaction{
		SessionID: sessionID, PlayerID: playerID, ItemID: item.ID, Quantity: quantity, Action: action,
	}
	s.DB.Create(&tx)

	s.Bus.Publish(ctx, events.MarketTransactionEvent{
		ItemID: itemID, Quantity: quantity, Action: eventAction, TransactionID: &tx.ID, SessionID: sessionID,
	})
}

func (s *MarketService) internItem(itemID int, name, category string) models.Item {
	var item models.Item
	if err := s.DB.Where("item_id = ?", itemID).First(&item).Error; err == nil {
		return item
	}
	item = models.Item{ItemID: itemID, Name: name, Category: category}
	s.DB.Create(&item)
	return item
}
