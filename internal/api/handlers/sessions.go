/**
 * @description
 * Session HTTP handlers: list session history and drive the session
 * lifecycle (start/close/next) via SessionControlEvent.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2, gorm.io/gorm
 * - internal/eventbus, internal/events, internal/models
 */

package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/models"
	"gorm.io/gorm"
)

type SessionHandler struct {
	DB  *gorm.DB
	Bus *eventbus.Bus
}

func NewSessionHandler(db *gorm.DB, bus *eventbus.Bus) *SessionHandler {
	return &SessionHandler{DB: db, Bus: bus}
}

type startSessionRequest struct {
	PlayerName string `json:"player_name"`
}

// ListSessions returns recent sessions, newest first.
// GET /api/v1/sessions
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var sessions []models.Session
	if err := h.DB.Order("started_at desc").Limit(limit).Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sessions)
}

// GetActiveSession returns the currently active session, via
// RequestSessionEvent/SessionSnapshotEvent request-and-wait.
// GET /api/v1/sessions/active
func (h *SessionHandler) GetActiveSession(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	evt, ok := h.Bus.RequestAndWait(ctx, events.RequestSessionEvent{}, eventbus.EventSessionSnapshot, requestTimeout)
	if !ok {
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": "session service did not respond"})
	}
	return c.JSON(evt.(events.SessionSnapshotEvent))
}

// StartSession begins a new session for a player.
// POST /api/v1/sessions
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req startSessionRequest
	if err := c.BodyParser(&req); err != nil || req.PlayerName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player_name is required"})
	}
	h.Bus.Publish(c.Context(), events.SessionControlEvent{Action: events.SessionControlStart, PlayerName: req.PlayerName})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "starting"})
}

// CloseSession ends the active session.
// POST /api/v1/sessions/close
func (h *SessionHandler) CloseSession(c *fiber.Ctx) error {
	h.Bus.Publish(c.Context(), events.SessionControlEvent{Action: events.SessionControlClose})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "closing"})
}

// NextSession closes the active session and immediately starts a new one
// for the same or a different player.
// POST /api/v1/sessions/next
func (h *SessionHandler) NextSession(c *fiber.Ctx) error {
	var req startSessionRequest
	_ = c.BodyParser(&req)
	h.Bus.Publish(c.Context(), events.SessionControlEvent{Action: events.SessionControlNext, PlayerName: req.PlayerName})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "rotating"})
}
