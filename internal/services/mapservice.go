/**
 * @description
 * MapService tracks the map-run lifecycle. A run starts on EnterLevel
 * only when leaving a hub/town for a dungeon (current_map_id empty, or a
 * hub id below 1000 transitioning into a dungeon id at/above 1000); a
 * re-entry of the same level_id is a no-op; the run ends only when
 * EnterLevel reports a hub id (<1000) while farming. This mirrors the
 * original's ENTER_LEVEL three-branch guard, so ordinary hub/town
 * visits between dungeon runs never fabricate a MapCompletion.
 *
 * A GAME_VIEW ending in "MysteryAreaCtrl" (the entry-confirmation
 * dialog) snapshots the inventory before the cost is paid; once the run
 * actually starts, that pre-entry snapshot is diffed against the
 * start-of-run snapshot to find consumed entry items, published on
 * MapStartedEvent and later recorded as consumed=true
 * MapCompletionItem rows.
 *
 * On close it diffs the inventory snapshots taken at start/end (via
 * invmodel.Inventory.CompareWith) to compute net inventory changes, then
 * persists a MapCompletion with its item deltas and collected affixes.
 * Currency gained per run is valued through the shared Price Book
 * (PriceLookup) net of the entry cost, the same source StatsService uses
 * for its running totals.
 *
 * Grounded on the original source's services/map_service.py.
 *
 * @dependencies
 * - internal/invmodel, internal/mapdata, internal/eventbus, internal/events
 * - internal/models
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
	"github.com/oracle-observer/backend/internal/mapdata"
	"github.com/oracle-observer/backend/internal/models"
)

// MapService consumes level-transition events to build a full history of
// map runs.
type MapService struct {
	Base

	inventory *InventoryService
	prices    PriceLookup

	mu             sync.Mutex
	currentMapID   int
	levelUID       int
	levelType      int
	currentMap     mapdata.Map
	startedAt      time.Time
	startSnapshot  *invmodel.Inventory
	preEnter       *invmodel.Inventory
	consumedItems  []invmodel.Entry
	pendingAffixes []events.AffixInfo
}

func NewMapService(base Base, inventory *InventoryService, prices PriceLookup) *MapService {
	return &MapService{Base: base, inventory: inventory, prices: prices}
}

func (s *MapService) Descriptor() Descriptor {
	return Descriptor{Name: "map", Version: "1.0.0", Requires: map[string]string{"inventory": ">=1.0.0"}}
}

func (s *MapService) Start(ctx context.Context) error {
	s.Bus.Subscribe(eventbus.EventEnterLevel, s.onEnterLevel)
	s.Bus.Subscribe(eventbus.EventExitLevel, s.onExitLevel)
	s.Bus.Subscribe(eventbus.EventWorldTransition, s.onWorldTransition)
	s.Bus.Subscribe(eventbus.EventStageAffix, s.onStageAffix)
	s.Bus.Subscribe(eventbus.EventMapLoaded, s.onMapLoaded)
	s.Bus.Subscribe(eventbus.EventLoadingProgress, s.onLoadingProgress)
	s.Bus.Subscribe(eventbus.EventGameView, s.onGameView)
	return nil
}

func (s *MapService) Stop(ctx context.Context) error { return nil }

// onGameView captures a pre-entry inventory snapshot when the dungeon
// entry-confirmation dialog (MysteryAreaCtrl) is shown, before the entry
// cost is deducted.
func (s *MapService) onGameView(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.GameViewEvent)
	if !strings.HasSuffix(e.View, "MysteryAreaCtrl") {
		return
	}
	snapshot := s.inventory.Snapshot()
	s.mu.Lock()
	s.preEnter = snapshot
	s.mu.Unlock()
}

// onEnterLevel ports the original's three-branch guard: start a run only
// when leaving a hub for a dungeon, ignore a re-entered level, and end a
// run only when returning to a hub.
func (s *MapService) onEnterLevel(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.EnterLevelEvent)

	s.mu.Lock()
	currentMapID := s.currentMapID
	s.mu.Unlock()

	switch {
	case (currentMapID == 0 && e.LevelID >= 1000) || (currentMapID < 1000 && e.LevelID >= 1000):
		s.startMap(ctx, e)
	case currentMapID == e.LevelID:
		// Re-entered the current level: no state transition.
	case e.LevelID < 1000:
		s.closeRun(ctx, e.Timestamp)
	}
}

// startMap begins tracking a new run, computing consumed entry items from
// the pre-entry snapshot (if any) against the snapshot at run start.
func (s *MapService) startMap(ctx context.Context, e events.EnterLevelEvent) {
	startSnapshot := s.inventory.Snapshot()

	s.mu.Lock()
	s.currentMapID = e.LevelID
	s.levelUID = e.LevelUID
	s.levelType = e.LevelType
	s.currentMap = e.Map
	s.startedAt = e.Timestamp
	s.startSnapshot = startSnapshot
	s.pendingAffixes = nil
	preEnter := s.preEnter
	s.mu.Unlock()

	var consumed []invmodel.Entry
	if preEnter != nil {
		diff := preEnter.CompareWith(startSnapshot)
		for itemID, delta := range diff {
			if delta < 0 {
				consumed = append(consumed, invmodel.Entry{ItemID: itemID, Quantity: -delta})
			}
		}
	}

	s.mu.Lock()
	s.consumedItems = consumed
	s.mu.Unlock()

	s.DB.Create(&models.MapVisit{MapPath: e.Map.Asset, MapName: e.Map.Name})

	s.Bus.Publish(ctx, events.MapStartedEvent{
		LevelID: e.LevelID, LevelUID: e.LevelUID, LevelType: e.LevelType, Map: &e.Map, ConsumedItems: consumed,
	})
}

func (s *MapService) onExitLevel(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.ExitLevelEvent)
	s.closeRun(ctx, e.Timestamp)
}

func (s *MapService) onWorldTransition(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.WorldTransitionEvent)
	if e.IsSwitchingSubWorldToMain {
		s.closeRun(ctx, e.Timestamp)
	}
}

func (s *MapService) onMapLoaded(ctx context.Context, evt eventbus.Event) {}

func (s *MapService) onLoadingProgress(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.LoadingProgressEvent)
	remaining := 100 - e.Percent
	s.Bus.Publish(ctx, events.LevelProgressEvent{
		Level: e.Page, Current: e.Percent, Remaining: remaining, LevelTotal: 100,
		Percentage: float64(e.Percent),
	})
}

func (s *MapService) onStageAffix(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.StageAffixEvent)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentMapID == 0 || e.LevelID != s.currentMapID {
		return
	}
	s.pendingAffixes = append(s.pendingAffixes, e.Affixes...)
}

// closeRun finalizes the current run, if any, computing item deltas and
// persisting a MapCompletion. Item deltas during the run (gains and
// losses) are recorded as consumed=false rows; the entry items spent
// between the pre-entry snapshot and run start are recorded separately
// as consumed=true rows, each TotalPrice the positive cost of that item,
// so currency_gained nets to Σtotal_price(consumed=false) minus
// Σtotal_price(consumed=true).
func (s *MapService) closeRun(ctx context.Context, endedAt time.Time) {
	s.mu.Lock()
	if s.currentMapID == 0 {
		s.mu.Unlock()
		return
	}
	startedAt := s.startedAt
	startSnapshot := s.startSnapshot
	currentMap := s.currentMap
	affixes := append([]events.AffixInfo(nil), s.pendingAffixes...)
	consumedItems := append([]invmodel.Entry(nil), s.consumedItems...)
	s.currentMapID = 0
	s.preEnter = nil
	s.consumedItems = nil
	s.mu.Unlock()

	endSnapshot := s.inventory.Snapshot()
	changes := startSnapshot.CompareWith(endSnapshot)
	duration := endedAt.Sub(startedAt).Seconds()
	if duration < 0 {
		duration = 0
	}

	s.Bus.Publish(ctx, events.MapFinishedEvent{
		Duration: duration, InventoryChanges: changes, Map: &currentMap, Affixes: affixes,
	})

	player, err := s.GetOrCreatePlayer(s.CurrentPlayerName())
	if err != nil || player == nil {
		return
	}

	var sessionID *uint
	if sid := s.CurrentSessionID(); sid != 0 {
		sessionID = &sid
	}

	currencyGained, itemsGained := s.summarize(changes)
	entryCost := s.entryCost(consumedItems)
	currencyGained -= entryCost

	completion := models.MapCompletion{
		PlayerID:       player.ID,
		SessionID:      sessionID,
		MapID:          currentMap.MapID,
		MapName:        currentMap.Name,
		MapDifficulty:  string(currentMap.Difficulty),
		StartedAt:      startedAt,
		CompletedAt:    endedAt,
		Duration:       duration,
		CurrencyGained: currencyGained,
		ItemsGained:    itemsGained,
	}
	if err := s.DB.Create(&completion).Error; err != nil {
		return
	}

	for itemID, delta := range changes {
		item := s.internItemRef(itemID)
		s.DB.Create(&models.MapCompletionItem{
			MapCompletionID: completion.ID,
			ItemID:          item.ID,
			Delta:           delta,
			TotalPrice:      s.price(itemID) * float64(delta),
			Consumed:        false,
		})
	}

	for _, c := range consumedItems {
		item := s.internItemRef(c.ItemID)
		s.DB.Create(&models.MapCompletionItem{
			MapCompletionID: completion.ID,
			ItemID:          item.ID,
			Delta:           -c.Quantity,
			TotalPrice:      s.price(c.ItemID) * float64(c.Quantity),
			Consumed:        true,
		})
	}

	for _, a := range affixes {
		affix := s.internAffix(a)
		s.DB.Create(&models.MapAffix{MapCompletionID: completion.ID, AffixID: affix.ID})
	}
}

// summarize values every item delta during the run through the Price Book
// and counts net-positive item deltas.
func (s *MapService) summarize(changes map[int]int) (currencyGained float64, itemsGained int) {
	for itemID, delta := range changes {
		if delta > 0 {
			itemsGained++
		}
		currencyGained += s.price(itemID) * float64(delta)
	}
	return currencyGained, itemsGained
}

// entryCost sums the positive cost of every item consumed between the
// pre-entry snapshot and run start.
func (s *MapService) entryCost(consumedItems []invmodel.Entry) float64 {
	var cost float64
	for _, c := range consumedItems {
		cost += s.price(c.ItemID) * float64(c.Quantity)
	}
	return cost
}

func (s *MapService) price(itemID int) float64 {
	if s.prices == nil {
		return 0
	}
	return s.prices.GetPrice(itemID)
}

func (s *MapService) internItemRef(itemID int) models.Item {
	var item models.Item
	if err := s.DB.Where("item_id = ?", itemID).First(&item).Error; err == nil {
		return item
	}
	item = models.Item{ItemID: itemID}
	s.DB.Create(&item)
	return item
}

func (s *MapService) internAffix(a events.AffixInfo) models.Affix {
	var affix models.Affix
	if err := s.DB.Where("affix_id = ?", a.AffixID).First(&affix).Error; err == nil {
		return affix
	}
	affix = models.Affix{AffixID: a.AffixID, Description: a.Description}
	s.DB.Create(&affix)
	return affix
}
