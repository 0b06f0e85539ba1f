package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fleet-admin-server/models"
)

// Clock is injected wherever the current time matters so decisions stay
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// VehicleStore is the primary, authoritative record store.
type VehicleStore interface {
	GetVehicle(id uint) (*models.Vehicle, error)
	ListVehicles() ([]models.Vehicle, error)
	UpdateVehicle(id uint, fields map[string]interface{}) error
	DeleteVehicle(id uint) error
}

// MirrorRow is the subset of a mirrored document row the propagator touches.
type MirrorRow struct {
	ID           uint
	DocumentType string
	Status       string
}

// MirrorStore is one of the denormalized per-document copies. Mirrors are
// written best-effort after the primary record; they are never the source of
// truth.
type MirrorStore interface {
	Name() string
	ListDocumentRows(vehicleID uint) ([]MirrorRow, error)
	UpdateDocumentRow(rowID uint, fields map[string]interface{}) error
}

// ErrVehicleNotFound is returned by stores when the id resolves to nothing.
var ErrVehicleNotFound = errors.New("vehicle not found")

// ErrUnknownDocumentType is returned for document keys outside the configured
// set.
var ErrUnknownDocumentType = errors.New("unknown document type")

// ValidationBlockedError means approval was attempted while the decision
// disallows it. Recoverable: the caller fixes the documents and retries.
type ValidationBlockedError struct {
	Decision VerificationDecision
}

func (e *ValidationBlockedError) Error() string {
	parts := append([]string{}, e.Decision.BlockingReasons...)
	for _, key := range e.Decision.Expired {
		parts = append(parts, key+" (expired)")
	}
	return "approval blocked: " + strings.Join(parts, ", ")
}

// ExpiringSoonError means approval was attempted with documents inside the
// warning window and no acknowledgement flag. Recoverable: re-invoke with the
// flag set.
type ExpiringSoonError struct {
	ExpiringSoon []string
}

func (e *ExpiringSoonError) Error() string {
	return fmt.Sprintf("documents expiring soon, acknowledgement required: %s", strings.Join(e.ExpiringSoon, ", "))
}

// MirrorWarning reports one failed mirror write. The action it belongs to
// still succeeded; the named mirror has diverged and needs manual
// reconciliation.
type MirrorWarning struct {
	Mirror string `json:"mirror"`
	RowID  uint   `json:"rowID,omitempty"`
	Error  string `json:"error"`
}

// FleetService owns the vehicle approval workflow: rule evaluation against
// the primary record, then best-effort replay onto the mirrors.
type FleetService struct {
	Vehicles VehicleStore
	Mirrors  []MirrorStore
	Clock    Clock
}

func NewFleetService(vehicles VehicleStore, mirrors []MirrorStore, clock Clock) *FleetService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &FleetService{Vehicles: vehicles, Mirrors: mirrors, Clock: clock}
}

// EvaluateVehicle computes the current decision for a vehicle without
// applying anything. Used by the console to preview blocking documents.
func (s *FleetService) EvaluateVehicle(id uint) (*models.Vehicle, VerificationDecision, error) {
	vehicle, err := s.Vehicles.GetVehicle(id)
	if err != nil {
		return nil, VerificationDecision{}, err
	}
	return vehicle, EvaluateApproval(vehicle.DocumentMap(), s.Clock.Now()), nil
}
