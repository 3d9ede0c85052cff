/**
 * @description
 * Map-run history models.
 * Maps to the 'map_completions', 'map_completion_items', 'affixes' and
 * 'map_affixes' tables in PostgreSQL, plus the supplemented 'map_visits'
 * lightweight visit log.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "time"

// MapCompletion records one finished map run.
type MapCompletion struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PlayerID       uint       `gorm:"not null;index:idx_map_completion_player" json:"player_id"`
	SessionID      *uint      `gorm:"index" json:"session_id,omitempty"`
	MapID          int        `gorm:"not null" json:"map_id"`
	MapName        string     `json:"map_name"`
	MapDifficulty  string     `json:"map_difficulty"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    time.Time  `json:"completed_at"`
	Duration       float64    `json:"duration"`
	CurrencyGained float64    `gorm:"default:0" json:"currency_gained"`
	ExpGained      float64    `gorm:"default:0" json:"exp_gained"`
	ItemsGained    int        `gorm:"default:0" json:"items_gained"`
	Description    string     `json:"description"`

	Player  Player   `gorm:"foreignKey:PlayerID" json:"-"`
	Session *Session `gorm:"foreignKey:SessionID" json:"-"`
}

func (MapCompletion) TableName() string { return "map_completions" }

// MapCompletionItem is one item-delta line within a MapCompletion.
type MapCompletionItem struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	MapCompletionID uint `gorm:"not null;index" json:"map_completion_id"`
	ItemID          uint `gorm:"not null" json:"item_id"`
	Delta           int  `json:"delta"`
	TotalPrice      float64 `json:"total_price"`
	Consumed        bool `gorm:"default:false" json:"consumed"`

	MapCompletion MapCompletion `gorm:"foreignKey:MapCompletionID" json:"-"`
	Item          Item          `gorm:"foreignKey:ItemID" json:"-"`
}

func (MapCompletionItem) TableName() string { return "map_completion_items" }

// Affix is an interned map-affix description.
type Affix struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AffixID     string `gorm:"uniqueIndex;not null" json:"affix_id"`
	Description string `json:"description"`
}

func (Affix) TableName() string { return "affixes" }

// MapAffix links a MapCompletion to the affixes active during that run.
type MapAffix struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	MapCompletionID uint `gorm:"not null;uniqueIndex:idx_map_affix_unique" json:"map_completion_id"`
	AffixID         uint `gorm:"not null;uniqueIndex:idx_map_affix_unique" json:"affix_id"`

	MapCompletion MapCompletion `gorm:"foreignKey:MapCompletionID" json:"-"`
	Affix         Affix         `gorm:"foreignKey:AffixID" json:"-"`
}

func (MapAffix) TableName() string { return "map_affixes" }

// MapVisit is a lightweight log of map runs, written by MapService when a
// run starts, independent of the MapCompletion written when it ends.
// MAP_LOADED events and hub/town visits are not recorded, and MapService
// leaves PlayerID unset.
type MapVisit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlayerID  *uint     `gorm:"index" json:"player_id,omitempty"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
	MapPath   string    `json:"map_path"`
	MapName   string    `json:"map_name"`

	Player *Player `gorm:"foreignKey:PlayerID" json:"-"`
}

func (MapVisit) TableName() string { return "map_visits" }
