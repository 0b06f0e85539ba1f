package models

import (
	"time"
)

// VehicleDocument is the flat per-document ledger, one row per document type
// per vehicle. It is a denormalized copy of the embedded map on Vehicle kept
// for list screens and reporting; the embedded map wins on conflict.
type VehicleDocument struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	VehicleID    uint       `json:"vehicleID" gorm:"not null;index"`
	DocumentType string     `json:"documentType" gorm:"size:50;not null;index"`
	Status       string     `json:"status" gorm:"size:20;default:'missing';index"`
	ReviewedBy   *uint      `json:"reviewedBy"`
	ReviewedAt   *time.Time `json:"reviewedAt"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
