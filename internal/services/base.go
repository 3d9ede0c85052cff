/**
 * @description
 * ServiceBase: common machinery shared by every domain service — current
 * player/session tracking and player get-or-create. The request/response
 * combinator is Bus.RequestAndWait in internal/eventbus. Grounded on the
 * original source's services/service_base.py.
 *
 * @dependencies
 * - internal/eventbus
 * - internal/models
 * - gorm.io/gorm
 */

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/logger"
	"github.com/oracle-observer/backend/internal/models"
	"gorm.io/gorm"
)

// sessionState is the mutable current-player/current-session tracking
// shared, by pointer, across every copy of the Base that embeds it — every
// domain service gets its own Base value, but all of them observe the same
// session lifecycle state.
type sessionState struct {
	mu          sync.RWMutex
	playerName  string
	sessionID   uint
}

// Base is embedded by every domain service for shared player/session
// tracking and bus access.
type Base struct {
	DB  *gorm.DB
	Bus *eventbus.Bus
	Log *logger.Logger

	state *sessionState
}

// NewBase constructs a Base and wires the internal handlers that keep
// currentPlayerName/currentSessionID in sync with session lifecycle
// events, matching ServiceBase._register_base_handlers.
func NewBase(db *gorm.DB, bus *eventbus.Bus, component string) Base {
	state := &sessionState{}
	bus.Subscribe(eventbus.EventSessionStarted, func(_ context.Context, evt eventbus.Event) {
		e := evt.(events.SessionStartedEvent)
		state.mu.Lock()
		state.sessionID = e.SessionID
		state.playerName = e.PlayerName
		state.mu.Unlock()
	})
	bus.Subscribe(eventbus.EventSessionFinished, func(_ context.Context, evt eventbus.Event) {
		state.mu.Lock()
		state.sessionID = 0
		state.mu.Unlock()
	})
	bus.Subscribe(eventbus.EventSessionRestore, func(_ context.Context, evt eventbus.Event) {
		e := evt.(events.SessionRestoreEvent)
		state.mu.Lock()
		state.sessionID = e.SessionID
		state.playerName = e.PlayerName
		state.mu.Unlock()
	})
	return Base{DB: db, Bus: bus, Log: logger.New(component), state: state}
}

// CurrentPlayerName returns the player name tracked from the most recent
// session lifecycle event.
func (b *Base) CurrentPlayerName() string {
	b.state.mu.RLock()
	defer b.state.mu.RUnlock()
	return b.state.playerName
}

// CurrentSessionID returns the session id tracked from the most recent
// session lifecycle event, or 0 if none is active.
func (b *Base) CurrentSessionID() uint {
	b.state.mu.RLock()
	defer b.state.mu.RUnlock()
	return b.state.sessionID
}

// GetOrCreatePlayer fetches a Player by name, creating it on first sight.
// Retries once on a unique-constraint race, matching the original's
// get_player try/except/re-fetch pattern.
func (b *Base) GetOrCreatePlayer(name string) (*models.Player, error) {
	var player models.Player
	err := b.DB.Where("name = ?", name).First(&player).Error
	if err == nil {
		player.LastSeen = time.Now()
		b.DB.Save(&player)
		return &player, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	player = models.Player{Name: name, Level: 1, Experience: 0, LastSeen: time.Now()}
	if err := b.DB.Create(&player).Error; err != nil {
		// Race: another goroutine created it first. Re-fetch.
		var existing models.Player
		if refetchErr := b.DB.Where("name = ?", name).First(&existing).Error; refetchErr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &player, nil
}

// GetActiveSession returns the session matching CurrentSessionID, if any.
func (b *Base) GetActiveSession() (*models.Session, error) {
	sessionID := b.CurrentSessionID()
	if sessionID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var session models.Session
	if err := b.DB.First(&session, sessionID).Error; err != nil {
		return nil, err
	}
	return &session, nil
}
