/**
 * @description
 * Player database model.
 * Maps to the 'players' table in PostgreSQL.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "time"

// Player represents the tracked game character.
type Player struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"uniqueIndex;not null" json:"name"`
	Level      int       `gorm:"default:1" json:"level"`
	Experience int64     `gorm:"column:experience;default:0" json:"experience"`
	LastSeen   time.Time `gorm:"autoUpdateTime" json:"last_seen"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Player) TableName() string { return "players" }
