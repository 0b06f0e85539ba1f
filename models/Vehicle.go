package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Vehicle verification statuses (vehicle-level aggregate).
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// Per-document statuses inside the embedded documents map.
const (
	DocumentMissing       = "missing"
	DocumentPendingReview = "pending_review"
	DocumentApproved      = "approved"
	DocumentRejected      = "rejected"
)

// DocumentRecord is one entry of the embedded documents map. The embedded map
// on Vehicle is the source of truth; VehicleDocument and DocumentSubmission
// rows are denormalized copies maintained for read convenience only.
type DocumentRecord struct {
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	URL             string     `json:"url,omitempty"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty"`
	UploadedAt      *time.Time `json:"uploadedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

type Vehicle struct {
	gorm.Model
	PartnerID         uint   `json:"partnerID" gorm:"index"`
	DriverID          *uint  `json:"driverID" gorm:"index"`
	Make              string `json:"make"`
	VehicleModel      string `json:"model" gorm:"column:vehicle_model"`
	Year              int    `json:"year"`
	RegistrationPlate string `json:"registrationPlate" gorm:"uniqueIndex;size:16"`

	// Aggregate outcome of document review: pending, approved, rejected.
	DocumentVerificationStatus string `json:"documentVerificationStatus" gorm:"type:varchar(20);default:'pending';index"`

	// Marketplace visibility. IsApproved/IsActive are kept in lockstep with
	// VisibleOnPlatform by the visibility toggle.
	VisibleOnPlatform bool `json:"visibleOnPlatform" gorm:"default:false;index"`
	IsApproved        bool `json:"isApproved" gorm:"default:false"`
	IsActive          bool `json:"isActive" gorm:"default:false"`

	// Authoritative per-type document map, keyed by document type.
	Documents datatypes.JSON `json:"documents" gorm:"type:jsonb"`

	RejectionReason string     `json:"rejectionReason" gorm:"type:text"`
	ApprovedBy      *uint      `json:"approvedBy"`
	RejectedBy      *uint      `json:"rejectedBy"`
	ApprovedAt      *time.Time `json:"approvedAt"`
}

// DocumentMap decodes the embedded documents column. A nil or empty column
// decodes to an empty map, never nil.
func (v *Vehicle) DocumentMap() map[string]DocumentRecord {
	docs := map[string]DocumentRecord{}
	if len(v.Documents) > 0 {
		json.Unmarshal(v.Documents, &docs)
	}
	return docs
}

// SetDocumentMap re-encodes the documents column from a map.
func (v *Vehicle) SetDocumentMap(docs map[string]DocumentRecord) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	v.Documents = datatypes.JSON(raw)
	return nil
}

// Custom JSON marshaling so the documents column renders as an object rather
// than raw bytes in API responses.
func (v *Vehicle) MarshalJSON() ([]byte, error) {
	type Alias Vehicle
	aux := &struct {
		Documents map[string]DocumentRecord `json:"documents"`
		*Alias
	}{
		Documents: v.DocumentMap(),
		Alias:     (*Alias)(v),
	}
	return json.Marshal(aux)
}
