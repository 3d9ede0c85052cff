/**
 * @description
 * StatsService computes live farming rates: currency/exp per hour, items
 * per hour by item id, and per-map currency, using a baseline-then-delta
 * accounting scheme so a restart mid-session doesn't double count.
 * Currency and item totals accrue from periodic inventory-snapshot diffs
 * (requested on a throttled ITEM_CHANGE tick), not from the map-run
 * summary MapService already persists; MAP_STARTED only subtracts the
 * entry cost paid for consumed items, so farming a map that costs more
 * than it returns shows as negative. Publishes StatsUpdateEvent on a
 * fixed tick for WebSocket clients and the session close snapshot.
 *
 * Grounded on the original source's services/stats_service.py.
 *
 * @dependencies
 * - internal/eventbus, internal/events
 */

package services

import (
	"context"
	"sync"
	"time"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/invmodel"
)

// PriceLookup is satisfied by the Price Book; it lets StatsService convert
// item-quantity deltas into currency without importing the Price Book
// package directly.
type PriceLookup interface {
	GetPrice(itemID int) float64
}

// snapshotInterval throttles RequestInventoryEvent publication on
// ITEM_CHANGE, matching the original's 1-second snapshot_interval.
const snapshotInterval = time.Second

type StatsService struct {
	Base

	prices PriceLookup
	tick   time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup

	mu             sync.Mutex
	running        bool
	sessionStart   time.Time
	totalMaps      int
	totalTime      float64
	mapTimer       time.Time
	itemTotals     map[int]float64
	currencyTotal  float64
	currencyPerMap float64
	expGainedTotal float64
	expLostTotal   float64
	lastExp        int
	lastLevel      int
	haveLastExp    bool

	currentMapEntryCost float64

	lastSnapshot      *invmodel.Inventory
	baselineSet       bool
	lastSnapshotTime  time.Time
}

func NewStatsService(base Base, prices PriceLookup, tick time.Duration) *StatsService {
	return &StatsService{Base: base, prices: prices, tick: tick, itemTotals: map[int]float64{}}
}

func (s *StatsService) Descriptor() Descriptor {
	return Descriptor{Name: "stats", Version: "1.0.0"}
}

func (s *StatsService) Start(ctx context.Context) error {
	s.Bus.Subscribe(eventbus.EventMapFinished, s.onMapFinished)
	s.Bus.Subscribe(eventbus.EventMapStarted, s.onMapStarted)
	s.Bus.Subscribe(eventbus.EventItemChange, s.onItemChange)
	s.Bus.Subscribe(eventbus.EventInventorySnapshot, s.onInventorySnapshot)
	s.Bus.Subscribe(eventbus.EventInventoryUpdate, s.onInventoryUpdate)
	s.Bus.Subscribe(eventbus.EventExpUpdate, s.onExpUpdate)
	s.Bus.Subscribe(eventbus.EventStatsControl, s.onStatsControl)
	s.Bus.Subscribe(eventbus.EventSessionStarted, s.onSessionStarted)
	s.Bus.Subscribe(eventbus.EventSessionRestore, s.onSessionRestore)

	s.mu.Lock()
	s.running = true
	s.sessionStart = time.Now()
	s.mu.Unlock()

	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.tickLoop(ctx)
	return nil
}

func (s *StatsService) Stop(ctx context.Context) error {
	close(s.stopCh)
	s.wg.Wait()
	return nil
}

func (s *StatsService) onSessionStarted(ctx context.Context, evt eventbus.Event) {
	s.reset()
}

func (s *StatsService) onSessionRestore(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.SessionRestoreEvent)
	s.mu.Lock()
	s.sessionStart = e.StartedAt
	s.totalMaps = e.TotalMaps
	s.totalTime = e.TotalTime
	s.currencyTotal = e.CurrencyTotal
	s.expGainedTotal = e.ExpTotal
	s.mu.Unlock()
}

func (s *StatsService) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionStart = time.Now()
	s.totalMaps = 0
	s.totalTime = 0
	s.currencyTotal = 0
	s.currencyPerMap = 0
	s.expGainedTotal = 0
	s.expLostTotal = 0
	s.itemTotals = map[int]float64{}
	s.haveLastExp = false
	s.currentMapEntryCost = 0
	s.lastSnapshot = nil
	s.baselineSet = false
	s.lastSnapshotTime = time.Time{}
}

func (s *StatsService) onStatsControl(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.StatsControlEvent)
	s.mu.Lock()
	switch e.Action {
	case events.StatsControlStop:
		s.running = false
	case events.StatsControlStart:
		s.running = true
	case events.StatsControlRestart:
		s.running = true
	}
	restart := e.Action == events.StatsControlRestart
	s.mu.Unlock()
	if restart {
		s.reset()
	}
}

// onMapStarted subtracts the cost of whatever entry items were consumed
// to start the run, so a map that costs more than it returns can show
// negative currency, matching the original's entry-cost deduction.
func (s *StatsService) onMapStarted(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.MapStartedEvent)

	var cost float64
	for _, item := range e.ConsumedItems {
		cost += s.price(item.ItemID) * float64(item.Quantity)
	}

	s.mu.Lock()
	s.currentMapEntryCost = cost
	s.currencyTotal -= cost
	s.mapTimer = time.Now()
	s.mu.Unlock()
}

func (s *StatsService) onMapFinished(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.MapFinishedEvent)

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.totalMaps++
	s.totalTime += e.Duration

	var mapCurrency float64
	for itemID, delta := range e.InventoryChanges {
		mapCurrency += float64(delta) * s.price(itemID)
	}
	mapCurrency -= s.currentMapEntryCost
	if s.totalMaps > 0 {
		s.currencyPerMap = s.currencyTotal / float64(s.totalMaps)
	}
	s.mu.Unlock()

	s.Bus.Publish(ctx, events.MapStatsEvent{
		Duration: e.Duration, ItemChanges: e.InventoryChanges, CurrencyGained: mapCurrency, Affixes: e.Affixes,
	})
}

func (s *StatsService) price(itemID int) float64 {
	if s.prices == nil {
		return 0
	}
	return s.prices.GetPrice(itemID)
}

// onItemChange throttles a RequestInventoryEvent to once per
// snapshotInterval, so a burst of bag events doesn't flood InventoryService
// with snapshot requests.
func (s *StatsService) onItemChange(ctx context.Context, evt eventbus.Event) {
	now := time.Now()
	s.mu.Lock()
	elapsed := now.Sub(s.lastSnapshotTime)
	shouldSnapshot := s.lastSnapshotTime.IsZero() || elapsed >= snapshotInterval
	if shouldSnapshot {
		s.lastSnapshotTime = now
	}
	s.mu.Unlock()

	if shouldSnapshot {
		s.Bus.Publish(ctx, events.RequestInventoryEvent{Requester: "stats"})
	}
}

// onInventorySnapshot accumulates currency/item totals from the delta
// between consecutive snapshots: the first snapshot is the baseline, the
// second is dropped (it would otherwise count every pre-existing DB item
// as a gain), and every snapshot after that is diffed against the last.
func (s *StatsService) onInventorySnapshot(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.InventorySnapshotEvent)

	s.mu.Lock()
	if s.lastSnapshot == nil {
		s.lastSnapshot = e.Snapshot
		s.mu.Unlock()
		return
	}
	if !s.baselineSet {
		s.baselineSet = true
		s.lastSnapshot = e.Snapshot
		s.mu.Unlock()
		return
	}

	changes := s.lastSnapshot.CompareWith(e.Snapshot)
	s.lastSnapshot = e.Snapshot
	if len(changes) == 0 {
		s.mu.Unlock()
		return
	}

	var currencyGained float64
	for itemID, delta := range changes {
		s.itemTotals[itemID] += float64(delta)
		currencyGained += float64(delta) * s.price(itemID)
	}
	s.currencyTotal += currencyGained
	if s.totalMaps > 0 {
		s.currencyPerMap = s.currencyTotal / float64(s.totalMaps)
	}
	s.mu.Unlock()

	s.publish(ctx)
}

// onInventoryUpdate treats a full inventory reload (player change, session
// restore) as a fresh baseline, so the reloaded quantities aren't counted
// as gains on the next snapshot diff.
func (s *StatsService) onInventoryUpdate(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.InventoryUpdateEvent)
	s.mu.Lock()
	s.lastSnapshot = e.Inventory.Copy()
	s.baselineSet = true
	s.mu.Unlock()
}

func (s *StatsService) onExpUpdate(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.ExpUpdateEvent)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.haveLastExp {
		s.lastExp = e.Experience
		s.lastLevel = e.Level
		s.haveLastExp = true
		return
	}

	delta := e.Experience - s.lastExp
	if e.Level > s.lastLevel {
		// Leveled up: the percent counter wrapped, so the raw delta is
		// meaningless. Treat the whole new reading as gained.
		delta = e.Experience
	}
	if delta > 0 {
		s.expGainedTotal += float64(delta)
	} else if delta < 0 {
		s.expLostTotal += float64(-delta)
	}
	s.lastExp = e.Experience
	s.lastLevel = e.Level
}

func (s *StatsService) tickLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.publish(ctx)
		case <-s.stopCh:
			return
		}
	}
}

func (s *StatsService) publish(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	sessionDuration := time.Since(s.sessionStart).Hours()
	if sessionDuration <= 0 {
		sessionDuration = 1.0 / 3600
	}

	itemsPerHour := make(map[int]float64, len(s.itemTotals))
	for id, total := range s.itemTotals {
		itemsPerHour[id] = total / sessionDuration
	}

	netExp := s.expGainedTotal - s.expLostTotal

	update := events.StatsUpdateEvent{
		TotalMaps:              s.totalMaps,
		TotalTime:              s.totalTime,
		SessionDuration:        time.Since(s.sessionStart).Seconds(),
		ItemsPerHour:           itemsPerHour,
		ExpPerHour:             netExp / sessionDuration,
		ExpGainedTotal:         s.expGainedTotal,
		ExpLostTotal:           s.expLostTotal,
		CurrencyPerMap:         s.currencyPerMap,
		CurrencyPerHour:        s.currencyTotal / sessionDuration,
		CurrencyTotal:          s.currencyTotal,
		CurrencyCurrentPerHour: s.currencyTotal / sessionDuration,
		CurrencyCurrentRaw:     s.currencyTotal,
		MapTimer:               time.Since(s.mapTimer).Seconds(),
	}
	s.mu.Unlock()

	s.Bus.Publish(ctx, update)
}
