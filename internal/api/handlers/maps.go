/**
 * @description
 * Map-completion HTTP handlers: history of finished map runs, with their
 * item deltas and affixes.
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

type MapHandler struct {
	DB *gorm.DB
}

func NewMapHandler(db *gorm.DB) *MapHandler {
	return &MapHandler{DB: db}
}

// ListMapCompletions returns recent map runs, newest first.
// GET /api/v1/maps?limit=50&offset=0
func (h *MapHandler) ListMapCompletions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)

	var completions []models.MapCompletion
	if err := h.DB.Order("completed_at desc").Limit(limit).Offset(offset).Find(&completions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(completions)
}

// GetMapCompletion returns one run with its item deltas and affixes.
// GET /api/v1/maps/:id
func (h *MapHandler) GetMapCompletion(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	var completion models.MapCompletion
	if err := h.DB.First(&completion, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "map completion not found"})
	}

	var items []models.MapCompletionItem
	h.DB.Where("map_completion_id = ?", id).Find(&items)

	var affixes []models.MapAffix
	h.DB.Where("map_completion_id = ?", id).Preload("Affix").Find(&affixes)

	return c.JSON(fiber.Map{
		"completion": completion,
		"items":      items,
		"affixes":    affixes,
	})
}
