/**
 * @description
 * Item reference-data model.
 * Maps to the 'items' table in PostgreSQL.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "time"

// Item is an interned game item, lazily created the first time it is seen
// in an inventory slot, a market transaction, or a price-book load.
type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemID    int       `gorm:"uniqueIndex;not null" json:"item_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Rarity    string    `json:"rarity"`
	Price     float64   `gorm:"default:0" json:"price"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Item) TableName() string { return "items" }
