package storage

import (
	"errors"

	"gorm.io/gorm"

	"fleet-admin-server/models"
	"fleet-admin-server/services"
)

// Vehicles is the GORM-backed primary record store.
type Vehicles struct {
	db *gorm.DB
}

func NewVehicles(db *gorm.DB) *Vehicles { return &Vehicles{db: db} }

func (s *Vehicles) GetVehicle(id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

func (s *Vehicles) ListVehicles() ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := s.db.Order("created_at DESC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (s *Vehicles) UpdateVehicle(id uint, fields map[string]interface{}) error {
	res := s.db.Model(&models.Vehicle{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrVehicleNotFound
	}
	return nil
}

func (s *Vehicles) DeleteVehicle(id uint) error {
	// Hard delete; the fleet keeps no tombstones.
	res := s.db.Unscoped().Delete(&models.Vehicle{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrVehicleNotFound
	}
	return nil
}

// VehicleDocumentMirror replays onto the flat per-document ledger.
type VehicleDocumentMirror struct {
	db *gorm.DB
}

func NewVehicleDocumentMirror(db *gorm.DB) *VehicleDocumentMirror {
	return &VehicleDocumentMirror{db: db}
}

func (m *VehicleDocumentMirror) Name() string { return "vehicle_documents" }

func (m *VehicleDocumentMirror) ListDocumentRows(vehicleID uint) ([]services.MirrorRow, error) {
	var rows []models.VehicleDocument
	if err := m.db.Where("vehicle_id = ?", vehicleID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]services.MirrorRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, services.MirrorRow{ID: row.ID, DocumentType: row.DocumentType, Status: row.Status})
	}
	return out, nil
}

func (m *VehicleDocumentMirror) UpdateDocumentRow(rowID uint, fields map[string]interface{}) error {
	return m.db.Model(&models.VehicleDocument{}).Where("id = ?", rowID).Updates(fields).Error
}

// DocumentSubmissionMirror replays onto the submissions copy the upload
// pipeline writes.
type DocumentSubmissionMirror struct {
	db *gorm.DB
}

func NewDocumentSubmissionMirror(db *gorm.DB) *DocumentSubmissionMirror {
	return &DocumentSubmissionMirror{db: db}
}

func (m *DocumentSubmissionMirror) Name() string { return "document_submissions" }

func (m *DocumentSubmissionMirror) ListDocumentRows(vehicleID uint) ([]services.MirrorRow, error) {
	var rows []models.DocumentSubmission
	if err := m.db.Where("vehicle_id = ?", vehicleID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]services.MirrorRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, services.MirrorRow{ID: row.ID, DocumentType: row.DocumentType, Status: row.Status})
	}
	return out, nil
}

func (m *DocumentSubmissionMirror) UpdateDocumentRow(rowID uint, fields map[string]interface{}) error {
	return m.db.Model(&models.DocumentSubmission{}).Where("id = ?", rowID).Updates(fields).Error
}

// CreateVehicle inserts a new vehicle in pending state with one missing
// document record per configured type, plus the matching rows in both
// mirrors. Creation is transactional; only later review decisions replicate
// best-effort.
func CreateVehicle(db *gorm.DB, vehicle *models.Vehicle) error {
	docs := map[string]models.DocumentRecord{}
	for _, spec := range services.DocumentTypes {
		docs[spec.Key] = models.DocumentRecord{Type: spec.Key, Status: models.DocumentMissing}
	}
	if err := vehicle.SetDocumentMap(docs); err != nil {
		return err
	}
	vehicle.DocumentVerificationStatus = models.VerificationPending
	vehicle.VisibleOnPlatform = false
	vehicle.IsApproved = false
	vehicle.IsActive = false

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vehicle).Error; err != nil {
			return err
		}
		for _, spec := range services.DocumentTypes {
			ledger := models.VehicleDocument{
				VehicleID:    vehicle.ID,
				DocumentType: spec.Key,
				Status:       models.DocumentMissing,
			}
			if err := tx.Create(&ledger).Error; err != nil {
				return err
			}
			submission := models.DocumentSubmission{
				VehicleID:    vehicle.ID,
				DocumentType: spec.Key,
				Status:       models.DocumentMissing,
			}
			if err := tx.Create(&submission).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
