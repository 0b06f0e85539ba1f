package services

import (
	"fleet-admin-server/models"
)

// VisibilityTransition is the single place the visibility/approval coupling
// lives. Flipping visibility drags IsApproved and IsActive to the new value:
// hiding an approved vehicle clears both flags, and showing a vehicle marks
// it approved and active even while document verification is still pending or
// rejected. No rule-engine check runs on this path.
func VisibilityTransition(current bool) (visible, approved, active bool) {
	next := !current
	return next, next, next
}

// ToggleVisibility flips the marketplace listing flag for a vehicle and
// applies the coupled flag transition. Calling it twice restores the original
// flags.
func (s *FleetService) ToggleVisibility(id uint, actorID uint) (*models.Vehicle, error) {
	vehicle, err := s.Vehicles.GetVehicle(id)
	if err != nil {
		return nil, err
	}

	visible, approved, active := VisibilityTransition(vehicle.VisibleOnPlatform)
	fields := map[string]interface{}{
		"visible_on_platform": visible,
		"is_approved":         approved,
		"is_active":           active,
	}
	if err := s.Vehicles.UpdateVehicle(id, fields); err != nil {
		return nil, err
	}

	vehicle.VisibleOnPlatform = visible
	vehicle.IsApproved = approved
	vehicle.IsActive = active
	return vehicle, nil
}

// RemoveVehicle hard-deletes the primary record. Mirror rows are cleaned up
// by the owning pipelines, not here.
func (s *FleetService) RemoveVehicle(id uint) error {
	return s.Vehicles.DeleteVehicle(id)
}
