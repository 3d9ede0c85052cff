/**
 * @description
 * Persisted inventory-slot model.
 * Maps to the 'inventory_items' table in PostgreSQL. The live, authoritative
 * inventory state lives in memory inside InventoryService; this table is
 * the durable mirror flushed periodically from the dirty-slot set.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "time"

// InventoryItem is one (page, slot) entry belonging to a player.
type InventoryItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlayerID  uint      `gorm:"not null;index:idx_inventory_player" json:"player_id"`
	ItemID    uint      `gorm:"not null" json:"item_id"`
	Page      int       `gorm:"not null" json:"page"`
	Slot      int       `gorm:"not null" json:"slot"`
	Quantity  int       `gorm:"default:1" json:"quantity"`
	Timestamp time.Time `gorm:"autoUpdateTime" json:"timestamp"`

	Player Player `gorm:"foreignKey:PlayerID" json:"-"`
	Item   Item   `gorm:"foreignKey:ItemID" json:"-"`
}

func (InventoryItem) TableName() string { return "inventory_items" }
