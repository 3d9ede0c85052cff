/**
 * @description
 * Market transaction and price-revision models.
 * Maps to the 'market_transactions' and 'price_revisions' tables.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "time"

type MarketAction string

const (
	MarketActionGained MarketAction = "gained"
	MarketActionLost   MarketAction = "lost"
)

// MarketTransaction records one auction-house gain/loss event.
type MarketTransaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	SessionID *uint        `gorm:"index" json:"session_id,omitempty"`
	PlayerID  *uint        `gorm:"index" json:"player_id,omitempty"`
	Timestamp time.Time    `gorm:"autoCreateTime" json:"timestamp"`
	ItemID    uint         `gorm:"not null" json:"item_id"`
	Quantity  int          `json:"quantity"`
	Action    MarketAction `gorm:"type:varchar(8)" json:"action"`

	Session *Session `gorm:"foreignKey:SessionID" json:"-"`
	Player  *Player  `gorm:"foreignKey:PlayerID" json:"-"`
	Item    Item     `gorm:"foreignKey:ItemID" json:"-"`
}

func (MarketTransaction) TableName() string { return "market_transactions" }

type PriceSource string

const (
	PriceSourceLocal  PriceSource = "LOCAL"
	PriceSourceRemote PriceSource = "REMOTE"
)

// PriceRevision records one load of the price book (its source and item
// count). The price book writes these rows but does not read them back.
type PriceRevision struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Timestamp time.Time   `gorm:"autoCreateTime" json:"timestamp"`
	Source    PriceSource `gorm:"type:varchar(8)" json:"source"`
	ItemCount int         `json:"item_count"`
}

func (PriceRevision) TableName() string { return "price_revisions" }
