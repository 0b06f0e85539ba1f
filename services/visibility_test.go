package services

import (
	"errors"
	"testing"

	"fleet-admin-server/models"
)

func TestVisibilityTransitionCouplesFlags(t *testing.T) {
	visible, approved, active := VisibilityTransition(false)
	if !visible || !approved || !active {
		t.Fatal("showing a vehicle must set all three flags")
	}
	visible, approved, active = VisibilityTransition(true)
	if visible || approved || active {
		t.Fatal("hiding a vehicle must clear all three flags")
	}
}

func TestToggleVisibilityIsItsOwnInverse(t *testing.T) {
	v := approvableVehicle(t, 1)
	v.VisibleOnPlatform = true
	v.IsApproved = true
	v.IsActive = true
	store := newFakeVehicleStore(v)
	svc := newTestService(store)

	hidden, err := svc.ToggleVisibility(1, 7)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if hidden.VisibleOnPlatform || hidden.IsApproved || hidden.IsActive {
		t.Fatal("first toggle must hide and clear flags")
	}

	restored, err := svc.ToggleVisibility(1, 7)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !restored.VisibleOnPlatform || !restored.IsApproved || !restored.IsActive {
		t.Fatal("second toggle must restore the original flags")
	}
}

func TestToggleVisibilitySkipsRuleEngine(t *testing.T) {
	// A vehicle with no documents at all can still be shown manually; the
	// toggle path performs no verification check.
	v := &models.Vehicle{DocumentVerificationStatus: models.VerificationPending}
	v.ID = 1
	store := newFakeVehicleStore(v)
	svc := newTestService(store)

	shown, err := svc.ToggleVisibility(1, 7)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !shown.VisibleOnPlatform || !shown.IsApproved || !shown.IsActive {
		t.Fatal("manual show must mark the vehicle approved and active even while verification is pending")
	}
	if shown.DocumentVerificationStatus != models.VerificationPending {
		t.Fatal("the aggregate verification status itself is not changed by the toggle")
	}
}

func TestRemoveVehicle(t *testing.T) {
	store := newFakeVehicleStore(approvableVehicle(t, 1))
	svc := newTestService(store)

	if err := svc.RemoveVehicle(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.GetVehicle(1); !errors.Is(err, ErrVehicleNotFound) {
		t.Fatal("vehicle must be gone after removal")
	}
	if err := svc.RemoveVehicle(1); !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}
