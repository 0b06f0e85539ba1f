package services

import (
	"fmt"
	"log"

	"fleet-admin-server/models"
)

// ApproveVehicle runs the full vehicle-scope approval: evaluate, write the
// primary record, replay onto the mirrors.
//
// The primary write always precedes the mirror writes. Mirror failures never
// roll the primary back; they come back as warnings so the caller can report
// success-with-divergence. There is no cross-action serialization: two
// concurrent operator actions on the same vehicle are last-write-wins.
func (s *FleetService) ApproveVehicle(id uint, actorID uint, ackExpiring bool) (*models.Vehicle, []MirrorWarning, error) {
	vehicle, err := s.Vehicles.GetVehicle(id)
	if err != nil {
		return nil, nil, err
	}

	now := s.Clock.Now()
	decision := EvaluateApproval(vehicle.DocumentMap(), now)
	if !decision.Allowed {
		return nil, nil, &ValidationBlockedError{Decision: decision}
	}
	if len(decision.ExpiringSoon) > 0 && !ackExpiring {
		return nil, nil, &ExpiringSoonError{ExpiringSoon: decision.ExpiringSoon}
	}

	// Promote pending documents only. A document an operator already
	// rejected stays rejected through a vehicle-level approval; it has to
	// be re-reviewed individually.
	docs := vehicle.DocumentMap()
	for key, rec := range docs {
		if rec.Status == models.DocumentPendingReview {
			rec.Status = models.DocumentApproved
			docs[key] = rec
		}
	}
	if err := vehicle.SetDocumentMap(docs); err != nil {
		return nil, nil, err
	}

	fields := map[string]interface{}{
		"document_verification_status": models.VerificationApproved,
		"visible_on_platform":          true,
		"is_approved":                  true,
		"is_active":                    true,
		"documents":                    vehicle.Documents,
		"approved_by":                  actorID,
	}
	// ApprovedAt marks the transition into the approved state. Re-approving
	// an already-approved vehicle keeps the original stamp.
	if vehicle.DocumentVerificationStatus != models.VerificationApproved {
		fields["approved_at"] = now
		vehicle.ApprovedAt = &now
	}
	if err := s.Vehicles.UpdateVehicle(id, fields); err != nil {
		return nil, nil, fmt.Errorf("primary write failed: %w", err)
	}

	vehicle.DocumentVerificationStatus = models.VerificationApproved
	vehicle.VisibleOnPlatform = true
	vehicle.IsApproved = true
	vehicle.IsActive = true
	vehicle.ApprovedBy = &actorID

	warnings := s.replayMirrors(id, models.DocumentApproved, actorID, "")
	return vehicle, warnings, nil
}

// RejectVehicle marks the vehicle rejected and delists it. Per-document
// statuses are left as they are; the reason lands on the vehicle and on every
// mirror row.
func (s *FleetService) RejectVehicle(id uint, actorID uint, reason string) (*models.Vehicle, []MirrorWarning, error) {
	vehicle, err := s.Vehicles.GetVehicle(id)
	if err != nil {
		return nil, nil, err
	}

	fields := map[string]interface{}{
		"document_verification_status": models.VerificationRejected,
		"visible_on_platform":          false,
		"is_approved":                  false,
		"is_active":                    false,
		"rejection_reason":             reason,
		"rejected_by":                  actorID,
	}
	if err := s.Vehicles.UpdateVehicle(id, fields); err != nil {
		return nil, nil, fmt.Errorf("primary write failed: %w", err)
	}

	vehicle.DocumentVerificationStatus = models.VerificationRejected
	vehicle.VisibleOnPlatform = false
	vehicle.IsApproved = false
	vehicle.IsActive = false
	vehicle.RejectionReason = reason
	vehicle.RejectedBy = &actorID

	warnings := s.replayMirrors(id, models.DocumentRejected, actorID, reason)
	return vehicle, warnings, nil
}

// DecideDocument approves or rejects a single document inside the primary
// record's map. Document-scope decisions have no cross-document
// preconditions, do not re-check expiry, and do not replay to the mirrors —
// only vehicle-scope decisions trigger mirror propagation.
func (s *FleetService) DecideDocument(id uint, docType, status, reason string, actorID uint) (*models.Vehicle, error) {
	if status != models.DocumentApproved && status != models.DocumentRejected {
		return nil, fmt.Errorf("document status must be %s or %s", models.DocumentApproved, models.DocumentRejected)
	}
	if _, ok := DocumentTypeByKey(docType); !ok {
		return nil, ErrUnknownDocumentType
	}

	vehicle, err := s.Vehicles.GetVehicle(id)
	if err != nil {
		return nil, err
	}

	docs := vehicle.DocumentMap()
	rec, ok := docs[docType]
	if !ok {
		rec = models.DocumentRecord{Type: docType, Status: models.DocumentMissing}
	}
	rec.Status = status
	if status == models.DocumentRejected {
		rec.RejectionReason = reason
	} else {
		rec.RejectionReason = ""
	}
	docs[docType] = rec
	if err := vehicle.SetDocumentMap(docs); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"documents": vehicle.Documents}
	if err := s.Vehicles.UpdateVehicle(id, fields); err != nil {
		return nil, fmt.Errorf("primary write failed: %w", err)
	}
	return vehicle, nil
}

// replayMirrors pushes one status onto every mirror row of the vehicle.
// Failures are logged and collected, never returned as errors: by the time we
// get here the primary write has already succeeded.
func (s *FleetService) replayMirrors(vehicleID uint, status string, actorID uint, reason string) []MirrorWarning {
	warnings := []MirrorWarning{}
	now := s.Clock.Now()
	for _, mirror := range s.Mirrors {
		rows, err := mirror.ListDocumentRows(vehicleID)
		if err != nil {
			log.Printf("mirror %s: list rows for vehicle %d failed: %v", mirror.Name(), vehicleID, err)
			warnings = append(warnings, MirrorWarning{Mirror: mirror.Name(), Error: err.Error()})
			continue
		}
		for _, row := range rows {
			fields := map[string]interface{}{
				"status":      status,
				"reviewed_by": actorID,
				"reviewed_at": now,
			}
			if reason != "" {
				fields["notes"] = reason
			}
			if err := mirror.UpdateDocumentRow(row.ID, fields); err != nil {
				log.Printf("mirror %s: update row %d failed: %v", mirror.Name(), row.ID, err)
				warnings = append(warnings, MirrorWarning{Mirror: mirror.Name(), RowID: row.ID, Error: err.Error()})
			}
		}
	}
	return warnings
}
