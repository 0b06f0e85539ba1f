package models

import (
	"time"
)

// DocumentSubmission is the secondary per-document mirror, written by the
// upload pipeline and read by partner-facing screens. Like VehicleDocument it
// is not authoritative; review status is replayed onto it after vehicle-level
// decisions.
type DocumentSubmission struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	VehicleID    uint       `json:"vehicleID" gorm:"not null;index"`
	DocumentType string     `json:"documentType" gorm:"size:50;not null"`
	FileURL      string     `json:"fileURL" gorm:"size:512"`
	Status       string     `json:"status" gorm:"size:20;default:'missing';index"`
	SubmittedAt  *time.Time `json:"submittedAt"`
	ReviewedBy   *uint      `json:"reviewedBy"`
	ReviewedAt   *time.Time `json:"reviewedAt"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
