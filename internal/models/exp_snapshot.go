/**
 * @description
 * Experience-snapshot model (supplemented from the original source's
 * ExpSnapshot table — a point-in-time record of level/exp, independent of
 * the live rate-tracking StatsService publishes over the event bus).
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "time"

type ExpSnapshot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlayerID   *uint     `gorm:"index" json:"player_id,omitempty"`
	Timestamp  time.Time `gorm:"autoCreateTime" json:"timestamp"`
	Level      int       `json:"level"`
	ExpPercent float64   `json:"exp_percent"`

	Player *Player `gorm:"foreignKey:PlayerID" json:"-"`
}

func (ExpSnapshot) TableName() string { return "exp_snapshots" }

// AllModels returns every model for AutoMigrate registration.
func AllModels() []interface{} {
	return []interface{}{
		&Player{},
		&Item{},
		&InventoryItem{},
		&Session{},
		&MapCompletion{},
		&MapCompletionItem{},
		&Affix{},
		&MapAffix{},
		&MapVisit{},
		&MarketTransaction{},
		&PriceRevision{},
		&ExpSnapshot{},
	}
}
