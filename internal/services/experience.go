/**
 * @description
 * ExperienceService tracks character level/experience progress against the
 * static level-to-required-experience table (internal/expdata) and
 * persists point-in-time snapshots, independent of StatsService's live
 * rate tracking. Supplemented from the original source's ExpSnapshot
 * table, which the distilled spec omitted but the original schema and UI
 * both rely on for a level-over-time history.
 *
 * Grounded on the original source's services/experience_service.py:
 * every EXP_UPDATE recomputes and publishes LEVEL_PROGRESS unconditionally
 * (no level-changed gate), and a PLAYER_JOIN loads the player's saved
 * level/experience to publish an initial reading before the first in-game
 * update arrives.
 *
 * @dependencies
 * - internal/eventbus, internal/events, internal/models, internal/expdata
 */

package services

import (
	"context"

	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/expdata"
	"github.com/oracle-observer/backend/internal/models"
)

type ExperienceService struct {
	Base
}

func NewExperienceService(base Base) *ExperienceService {
	return &ExperienceService{Base: base}
}

func (s *ExperienceService) Descriptor() Descriptor {
	return Descriptor{Name: "experience", Version: "1.0.0"}
}

func (s *ExperienceService) Start(ctx context.Context) error {
	s.Bus.Subscribe(eventbus.EventExpUpdate, s.onExpUpdate)
	s.Bus.Subscribe(eventbus.EventPlayerJoin, s.onPlayerJoin)
	return nil
}

func (s *ExperienceService) Stop(ctx context.Context) error { return nil }

// onExpUpdate recomputes and publishes level progress on every reading,
// and records a snapshot every time, not only on a level change: the UI's
// level-over-time chart wants every data point, not just the transitions.
func (s *ExperienceService) onExpUpdate(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.ExpUpdateEvent)

	s.publishProgress(ctx, e.Level, e.Experience)

	player, err := s.GetOrCreatePlayer(s.CurrentPlayerName())
	var playerID *uint
	if err == nil && player != nil {
		playerID = &player.ID
		player.Level = e.Level
		player.Experience = int64(e.Experience)
		s.DB.Save(player)
	}

	s.DB.Create(&models.ExpSnapshot{
		PlayerID: playerID, Level: e.Level, ExpPercent: float64(e.Experience),
	})
}

// onPlayerJoin loads the player's saved level/experience and publishes an
// initial LEVEL_PROGRESS before any in-game EXP_UPDATE arrives, so the UI
// isn't blank until the player's first kill.
func (s *ExperienceService) onPlayerJoin(ctx context.Context, evt eventbus.Event) {
	e := evt.(events.PlayerJoinEvent)
	if e.PlayerName == "" {
		return
	}

	player, err := s.GetOrCreatePlayer(e.PlayerName)
	if err != nil || player == nil {
		return
	}

	s.publishProgress(ctx, player.Level, int(player.Experience))
}

// publishProgress computes remaining/percentage against the reference
// table and publishes LEVEL_PROGRESS. A level absent from the table (the
// reference data doesn't cover it) publishes nothing, matching the
// original's early return.
func (s *ExperienceService) publishProgress(ctx context.Context, level, experience int) {
	levelTotal, ok := expdata.RequiredExp(level)
	if !ok {
		return
	}

	remaining := levelTotal - experience
	if remaining < 0 {
		remaining = 0
	}
	var percentage float64
	if levelTotal > 0 {
		percentage = float64(experience) / float64(levelTotal) * 100.0
	}

	s.Bus.Publish(ctx, events.LevelProgressEvent{
		Level: level, Current: experience, Remaining: remaining, LevelTotal: levelTotal, Percentage: percentage,
	})
}
