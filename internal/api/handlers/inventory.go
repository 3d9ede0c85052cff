/**
 * @description
 * Inventory HTTP handlers: exposes the live, in-memory inventory tracked by
 * InventoryService as a JSON snapshot.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - internal/services
 */

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oracle-observer/backend/internal/services"
)

type InventoryHandler struct {
	Service *services.InventoryService
}

func NewInventoryHandler(service *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{Service: service}
}

// GetInventory returns every occupied slot in the live inventory.
// GET /api/v1/inventory
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	snapshot := h.Service.Snapshot()
	slots := snapshot.Slots()

	out := make([]fiber.Map, 0, len(slots))
	for slot, entry := range slots {
		out = append(out, fiber.Map{
			"page":     slot.Page,
			"slot":     slot.Slot,
			"item_id":  entry.ItemID,
			"name":     entry.Name,
			"category": entry.Category,
			"quantity": entry.Quantity,
		})
	}
	return c.JSON(out)
}
