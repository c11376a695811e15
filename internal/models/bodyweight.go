// ABOUTME: Bodyweight log model, one reading per date.
package models

import "time"

// Bodyweight is a dated bodyweight reading.
type Bodyweight struct {
	ID        string     `json:"id"`
	Date      Date       `json:"date"`
	Weight    float64    `json:"weight" validate:"gt=0"`
	Unit      WeightUnit `json:"unit" validate:"oneof=KG LB"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewBodyweight creates a reading for date.
func NewBodyweight(date Date, weight float64, unit WeightUnit) *Bodyweight {
	now := time.Now()
	return &Bodyweight{
		ID:        NewIDAt(now),
		Date:      date,
		Weight:    weight,
		Unit:      unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
