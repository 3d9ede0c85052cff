/**
 * @description
 * Market-transaction HTTP handlers: history of auction-house gains/losses.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2, gorm.io/gorm
 * - internal/models
 */

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oracle-observer/backend/internal/models"
	"gorm.io/gorm"
)

type MarketHandler struct {
	DB *gorm.DB
}

func NewMarketHandler(db *gorm.DB) *MarketHandler {
	return &MarketHandler{DB: db}
}

// ListMarketTransactions returns recent auction-house transactions, newest
// first.
// GET /api/v1/market/transactions?limit=100
func (h *MarketHandler) ListMarketTransactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var txs []models.MarketTransaction
	if err := h.DB.Order("timestamp desc").Limit(limit).Find(&txs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(txs)
}
