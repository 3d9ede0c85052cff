/**
 * @description
 * WebSocket upgrade handler: accepts a client connection and hands it to
 * EventStreamService's broadcast set.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2, github.com/gofiber/websocket/v2
 * - internal/services
 */

package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/oracle-observer/backend/internal/services"
)

type WebSocketHandler struct {
	Stream *services.EventStreamService
}

func NewWebSocketHandler(stream *services.EventStreamService) *WebSocketHandler {
	return &WebSocketHandler{Stream: stream}
}

// UpgradeCheck rejects non-WebSocket requests before the Upgrade handler
// runs, matching the standard fiber/websocket middleware pairing.
func (h *WebSocketHandler) UpgradeCheck(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handle runs for the lifetime of one WebSocket connection.
// GET /ws
func (h *WebSocketHandler) Handle() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.Stream.Register(context.Background(), conn)
	})
}
