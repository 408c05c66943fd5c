package domain

import (
	"encoding/json"
	"time"
)

// Farm is a monitored location with stored coordinates.
type Farm struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
	Alerts    []Alert   `json:"-" gorm:"foreignKey:FarmID"`
}

// Alert is a persisted notification of possible pest risk for a farm at a
// point in time. Alerts are append-only; they are never updated or deleted.
type Alert struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FarmID    uint      `json:"farm_id" gorm:"not null;index"`
	Message   string    `json:"message" gorm:"not null"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
}

// Reading is a normalized weather snapshot for a farm's coordinates.
// Temperature and humidity use pointers because provider absence must be
// distinguishable from zero; absent rain is normalized to 0 mm.
type Reading struct {
	Temperature *float64
	Humidity    *float64
	RainMM      float64

	// Raw holds the unmodified provider payload for diagnostics.
	Raw json.RawMessage
}
