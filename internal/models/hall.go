package models

import "time"

type Hall struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `json:"description"`
	Capacity        int       `gorm:"not null" json:"capacity"`
	Area            float64   `json:"area"`
	HourlyRate      float64   `gorm:"not null" json:"hourly_rate"`
	DailyRate       *float64  `json:"daily_rate,omitempty"`
	SecurityDeposit float64   `json:"security_deposit"`
	Location        string    `json:"location"`
	Rules           string    `json:"rules"`
	Equipment       []string  `gorm:"serializer:json" json:"equipment"`
	Images          []string  `gorm:"serializer:json" json:"images"`
	IsAvailable     bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
