/**
 * @description
 * API route definitions: wires the REST surface and the WebSocket event
 * stream onto handlers backed directly by gorm.DB and the eventbus.Bus
 * shared with the worker's domain services.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - internal/api/handlers
 * - internal/eventbus, internal/services
 */

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oracle-observer/backend/internal/api/handlers"
	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/services"
	"gorm.io/gorm"
)

// SetupRoutes registers every HTTP and WebSocket route against the shared
// database handle, event bus, and the subset of domain services the HTTP
// layer needs direct access to.
func SetupRoutes(app *fiber.App, db *gorm.DB, bus *eventbus.Bus, inventory *services.InventoryService, stream *services.EventStreamService) {
	inventoryHandler := handlers.NewInventoryHandler(inventory)
	mapHandler := handlers.NewMapHandler(db)
	sessionHandler := handlers.NewSessionHandler(db, bus)
	itemHandler := handlers.NewItemHandler(db)
	marketHandler := handlers.NewMarketHandler(db)
	systemHandler := handlers.NewSystemHandler(bus)
	wsHandler := handlers.NewWebSocketHandler(stream)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "log observer backend"})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1.Get("/inventory", inventoryHandler.GetInventory)

	maps := v1.Group("/maps")
	maps.Get("/", mapHandler.ListMapCompletions)
	maps.Get("/:id", mapHandler.GetMapCompletion)

	sessions := v1.Group("/sessions")
	sessions.Get("/", sessionHandler.ListSessions)
	sessions.Get("/active", sessionHandler.GetActiveSession)
	sessions.Post("/", sessionHandler.StartSession)
	sessions.Post("/close", sessionHandler.CloseSession)
	sessions.Post("/next", sessionHandler.NextSession)

	items := v1.Group("/items")
	items.Get("/", itemHandler.ListItems)
	items.Get("/:item_id", itemHandler.GetItem)

	market := v1.Group("/market")
	market.Get("/transactions", marketHandler.ListMarketTransactions)

	v1.Post("/stats/reset", systemHandler.ResetStats)
	v1.Post("/system/restart", systemHandler.RestartSystem)

	app.Use("/ws", wsHandler.UpgradeCheck)
	app.Get("/ws", wsHandler.Handle())
}
