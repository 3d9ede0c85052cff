/**
 * @description
 * SessionService owns the farming-session lifecycle: start, close, and
 * restore-on-startup of an in-progress session. It tracks map counts
 * directly from MapFinishedEvent and mirrors the latest rate totals
 * published by StatsService so a close/restore always persists an
 * up-to-date row. A PLAYER_JOIN either restores a session already active
 * in the database for that player, or leaves auto-start to the next
 * STATS_UPDATE once a player name is known (matching the original's
 * on_stats_update auto-start, which only fires once there's something to
 * report). A player actually changing closes whatever session was open
 * and starts a fresh one for the new player.
 *
 * Grounded on the original source's services/session_service.py,
 * including its PostStart-time restore of any session left IsActive from
 * an unclean shutdown.
 *
 * @dependencies
 * - internal/eventbus, internal/events, internal/models
 */

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/models"
)

type SessionService struct {
	Base

	mu            sync.Mutex
	latestStats   events.StatsUpdateEvent
	haveLiveStats bool
	lastPlayer    string
}

func NewSessionService(base Base) *SessionService {
	return &SessionService{Base: base}
}

func (s *SessionService) Descriptor() Descriptor {
	return Descriptor{Name: "session", Version: "1.0.0"}
}

func (s *SessionService) Start(ctx context.Context) error {
	s.Bus.Subscribe(eventbus.EventSessionControl, s.onSessionControl)
	s.Bus.Subscribe(eventbus.EventRequestSession, s.onRequestSession)
	s.Bus.Subscribe(eventbus.EventMapFinished, s.onMapFinished)
	s.Bus.Subscribe(eventbus.EventStatsUpdate, s.onStatsUpdate)
	s.Bus.Subscribe(eventbus.EventPlayerJoin, s.onPlayerJoin)
	s.Bus.Subscribe(eventbus.EventPlayerChanged, s.onPlayerChanged)
	s.Bus.Subscribe(eventbus.EventGameView, s.onGameView)
	return nil
}

func (s *SessionService) Stop(ctx context.Context) error { return nil }

// PostStart restores any session left IsActive by an unclean shutdown,
// matching ServiceBase's startup recovery.
func (s *SessionService) PostStart(ctx context.Context) error {
	var active models.Session
	if err := s.DB.Where("is_active = ?", true).Order("started_at desc").First(&active).Error; err != nil {
		return nil
	}

	s.Bus.Publish(ctx, events.SessionRestoreEvent{
		SessionID: active.ID, PlayerName: active.PlayerName, StartedAt: active.StartedAt,
		TotalMaps: active.TotalMaps, TotalTime: active.TotalTime,
		CurrencyTotal: active.CurrencyTotal, CurrencyPerHour: active.CurrencyPerHour,
		CurrencyPerMap: active.CurrencyPerMap, ExpTotal: active.ExpTotal, ExpPerHour: active.ExpPerHour,
	})
	return nil
}

func (s *SessionService) onSessionControl(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.SessionControlEvent)
	switch e.Action {
	case events.SessionControlStart:
		s.startSession(ctx, e.PlayerName)
	case events.SessionControlClose:
		s.closeSession(ctx)
	case events.SessionControlNext:
		s.closeSession(ctx)
		s.startSession(ctx, e.PlayerName)
	}
}

func (s *SessionService) startSession(ctx context.Context, playerName string) {
	if playerName == "" {
		return
	}
	if s.CurrentSessionID() != 0 {
		s.closeSession(ctx)
	}

	player, err := s.GetOrCreatePlayer(playerName)
	if err != nil || player == nil {
		return
	}

	session := models.Session{PlayerID: &player.ID, PlayerName: playerName, IsActive: true, StartedAt: time.Now()}
	if err := s.DB.Create(&session).Error; err != nil {
		return
	}

	s.mu.Lock()
	s.haveLiveStats = false
	s.mu.Unlock()

	s.Bus.Publish(ctx, events.SessionStartedEvent{
		SessionID: session.ID, PlayerName: playerName, StartedAt: session.StartedAt,
	})
}

func (s *SessionService) closeSession(ctx context.Context) {
	active, err := s.GetActiveSession()
	if err != nil || active == nil {
		return
	}

	now := time.Now()
	active.EndedAt = &now
	active.IsActive = false

	s.mu.Lock()
	if s.haveLiveStats {
		active.TotalCurrencyDelta = s.latestStats.CurrencyTotal
		active.CurrencyPerHour = s.latestStats.CurrencyPerHour
		active.CurrencyPerMap = s.latestStats.CurrencyPerMap
		active.ExpTotal = s.latestStats.ExpGainedTotal - s.latestStats.ExpLostTotal
		active.ExpPerHour = s.latestStats.ExpPerHour
		active.TotalTime = s.latestStats.SessionDuration
	}
	s.mu.Unlock()

	s.DB.Save(active)

	s.Bus.Publish(ctx, events.SessionFinishedEvent{
		SessionID: active.ID, PlayerName: active.PlayerName, StartedAt: active.StartedAt, EndedAt: now,
		TotalMaps: active.TotalMaps, TotalCurrencyDelta: active.TotalCurrencyDelta,
		CurrencyPerHour: active.CurrencyPerHour, CurrencyPerMap: active.CurrencyPerMap,
	})
}

func (s *SessionService) onMapFinished(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.MapFinishedEvent)
	active, err := s.GetActiveSession()
	if err != nil || active == nil {
		return
	}
	active.TotalMaps++
	active.TotalTime += e.Duration
	s.DB.Save(active)
}

// onStatsUpdate auto-starts a session the first time there's something to
// report and a player name is already known, matching the original's
// on_stats_update auto-start guard.
func (s *SessionService) onStatsUpdate(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.StatsUpdateEvent)

	if s.CurrentSessionID() == 0 {
		s.mu.Lock()
		playerName := s.lastPlayer
		s.mu.Unlock()
		if playerName != "" {
			s.startSession(ctx, playerName)
		}
	}

	s.mu.Lock()
	s.latestStats = e
	s.haveLiveStats = true
	s.mu.Unlock()
}

// onPlayerJoin tracks the logged-in player name, announcing a change via
// PlayerChangedEvent, and restores a session already marked active in the
// database for that player if it isn't already the one loaded.
func (s *SessionService) onPlayerJoin(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.PlayerJoinEvent)

	s.mu.Lock()
	oldPlayer := s.lastPlayer
	changed := oldPlayer != e.PlayerName
	s.lastPlayer = e.PlayerName
	s.mu.Unlock()

	if changed {
		s.Bus.Publish(ctx, events.PlayerChangedEvent{OldPlayer: oldPlayer, NewPlayer: e.PlayerName})
	}

	var active models.Session
	if err := s.DB.Where("is_active = ? AND player_name = ?", true, e.PlayerName).First(&active).Error; err != nil {
		return
	}
	if active.ID == s.CurrentSessionID() {
		return
	}

	s.Bus.Publish(ctx, events.SessionRestoreEvent{
		SessionID: active.ID, PlayerName: active.PlayerName, StartedAt: active.StartedAt,
		TotalMaps: active.TotalMaps, TotalTime: active.TotalTime,
		CurrencyTotal: active.CurrencyTotal, CurrencyPerHour: active.CurrencyPerHour,
		CurrencyPerMap: active.CurrencyPerMap, ExpTotal: active.ExpTotal, ExpPerHour: active.ExpPerHour,
	})
}

// onPlayerChanged closes whatever session was open for the previous
// player and starts a fresh one for the new player. A first join (no
// previous player) changes nothing here: onPlayerJoin restores an active
// session, or onStatsUpdate auto-starts one.
func (s *SessionService) onPlayerChanged(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.PlayerChangedEvent)
	if e.OldPlayer == "" {
		return
	}
	if s.CurrentSessionID() != 0 {
		s.closeSession(ctx)
	}
	s.startSession(ctx, e.NewPlayer)
}

// onGameView warns the UI, on reaching the login screen, that a session is
// still marked active in the database (most likely left over from an
// unclean shutdown before PostStart had a chance to restore it).
func (s *SessionService) onGameView(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.GameViewEvent)
	if !strings.Contains(e.View, "Login") {
		return
	}

	var active models.Session
	if err := s.DB.Where("is_active = ?", true).First(&active).Error; err != nil {
		return
	}

	duration := 8000
	s.Bus.Publish(ctx, events.NotificationEvent{
		Title:    "Active Session Found",
		Content:  fmt.Sprintf("There is an active session for player: %s", active.PlayerName),
		Severity: events.SeverityWarning,
		Duration: &duration,
	})
}

func (s *SessionService) onRequestSession(ctx context.Context, _ eventbus.Event) {
	active, err := s.GetActiveSession()
	if err != nil || active == nil {
		s.Bus.Publish(ctx, events.SessionSnapshotEvent{IsActive: false})
		return
	}
	sessionID := active.ID
	started := active.StartedAt
	s.Bus.Publish(ctx, events.SessionSnapshotEvent{
		SessionID: &sessionID, PlayerName: active.PlayerName, StartedAt: &started, IsActive: true,
	})
}
