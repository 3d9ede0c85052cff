/**
 * @description
 * Item reference-data HTTP handlers.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2, gorm.io/gorm
 * - internal/models
 */

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/oracle-observer/backend/internal/models"
	"gorm.io/gorm"
)

type ItemHandler struct {
	DB *gorm.DB
}

func NewItemHandler(db *gorm.DB) *ItemHandler {
	return &ItemHandler{DB: db}
}

// ListItems returns every interned item.
// GET /api/v1/items
func (h *ItemHandler) ListItems(c *fiber.Ctx) error {
	var items []models.Item
	if err := h.DB.Order("item_id asc").Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(items)
}

// GetItem returns one item by its in-game item id.
// GET /api/v1/items/:item_id
func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	itemID, err := strconv.Atoi(c.Params("item_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item_id"})
	}

	var item models.Item
	if err := h.DB.Where("item_id = ?", itemID).First(&item).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}
	return c.JSON(item)
}
