/**
 * @description
 * Farming-session database model.
 * Maps to the 'sessions' table in PostgreSQL. A session aggregates stats
 * across a run of maps for one player between start/close boundaries.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "time"

// Session represents one farming session for a player.
type Session struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PlayerID   *uint      `gorm:"index" json:"player_id,omitempty"`
	PlayerName string     `json:"player_name"`
	IsActive   bool       `gorm:"default:true;index" json:"is_active"`
	StartedAt  time.Time  `gorm:"autoCreateTime" json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`

	TotalMaps          int     `gorm:"default:0" json:"total_maps"`
	TotalCurrencyDelta float64 `gorm:"default:0" json:"total_currency_delta"`
	CurrencyPerHour    float64 `gorm:"default:0" json:"currency_per_hour"`
	CurrencyPerMap     float64 `gorm:"default:0" json:"currency_per_map"`
	TotalTime          float64 `gorm:"default:0" json:"total_time"`
	ExpTotal           float64 `gorm:"default:0" json:"exp_total"`
	ExpPerHour         float64 `gorm:"default:0" json:"exp_per_hour"`
	CurrencyTotal      float64 `gorm:"default:0" json:"currency_total"`

	Title       string `json:"title"`
	Description string `json:"description"`

	Player *Player `gorm:"foreignKey:PlayerID" json:"-"`
}

func (Session) TableName() string { return "sessions" }
