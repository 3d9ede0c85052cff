/**
 * @description
 * System control HTTP handlers: reset live stats accounting and request a
 * full tracking restart, both expressed as bus control events so the
 * owning services decide how to react rather than the HTTP layer reaching
 * into their state directly.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - internal/eventbus, internal/events
 */

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/eventbus"
)

type SystemHandler struct {
	Bus *eventbus.Bus
}

func NewSystemHandler(bus *eventbus.Bus) *SystemHandler {
	return &SystemHandler{Bus: bus}
}

// ResetStats zeroes StatsService's accumulators without touching the
// active session or map history.
// POST /api/v1/stats/reset
func (h *SystemHandler) ResetStats(c *fiber.Ctx) error {
	h.Bus.Publish(c.Context(), events.StatsControlEvent{Action: events.StatsControlRestart})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "reset"})
}

// RestartSystem broadcasts a restart notification and restarts stats
// accounting; it does not restart the parser registry or log tailer, which
// run for the process lifetime.
// POST /api/v1/system/restart
func (h *SystemHandler) RestartSystem(c *fiber.Ctx) error {
	h.Bus.Publish(c.Context(), events.StatsControlEvent{Action: events.StatsControlRestart})
	h.Bus.Publish(c.Context(), events.NotificationEvent{
		Title: "System restarted", Severity: events.SeverityInfo,
	})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "restarted"})
}
