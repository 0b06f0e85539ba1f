package routes

import (
	"errors"
	"net/http"

	"github.com/kataras/iris/v12"

	"fleet-admin-server/services"
	"fleet-admin-server/utils"
)

// fleetError maps workflow errors onto the console's error vocabulary. Rule
// violations and infrastructure failures get distinct codes so the client can
// tell "fix the documents" apart from "try again later".
func fleetError(ctx iris.Context, err error) {
	var blocked *services.ValidationBlockedError
	if errors.As(err, &blocked) {
		ctx.StatusCode(http.StatusUnprocessableEntity)
		ctx.JSON(iris.Map{
			"error":           "approval_blocked",
			"message":         blocked.Error(),
			"blockingReasons": blocked.Decision.BlockingReasons,
			"expired":         blocked.Decision.Expired,
		})
		return
	}
	var expiring *services.ExpiringSoonError
	if errors.As(err, &expiring) {
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{
			"error":        "expiring_soon_unacknowledged",
			"message":      expiring.Error(),
			"expiringSoon": expiring.ExpiringSoon,
		})
		return
	}
	if errors.Is(err, services.ErrVehicleNotFound) {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "vehicle not found")
		return
	}
	if errors.Is(err, services.ErrUnknownDocumentType) {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "unknown_document_type", err.Error())
		return
	}
	utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
}

// POST /admin/fleet/{id}/approve { acknowledgeExpiring }
func AdminApproveVehicle(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	// Body is optional; the flag defaults to false so expiring documents
	// always need an explicit second call.
	var body struct {
		AcknowledgeExpiring bool `json:"acknowledgeExpiring"`
	}
	ctx.ReadJSON(&body)

	before, err := Fleet.Vehicles.GetVehicle(id)
	if err != nil {
		fleetError(ctx, err)
		return
	}

	vehicle, warnings, err := Fleet.ApproveVehicle(id, utils.ActorID(ctx), body.AcknowledgeExpiring)
	if err != nil {
		fleetError(ctx, err)
		return
	}

	utils.AuditWithWarnings(ctx, "vehicle.approve", "vehicle", vehicle.ID, before, vehicle, warnings)
	utils.JSONWithWarnings(ctx, vehicle, warnings)
}

// POST /admin/fleet/{id}/reject { reason }
func AdminRejectVehicle(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Reason == "" {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "reason required")
		return
	}

	before, err := Fleet.Vehicles.GetVehicle(id)
	if err != nil {
		fleetError(ctx, err)
		return
	}

	vehicle, warnings, err := Fleet.RejectVehicle(id, utils.ActorID(ctx), body.Reason)
	if err != nil {
		fleetError(ctx, err)
		return
	}

	utils.AuditWithWarnings(ctx, "vehicle.reject", "vehicle", vehicle.ID, before, vehicle, warnings)
	utils.JSONWithWarnings(ctx, vehicle, warnings)
}

// PATCH /admin/fleet/{id}/documents/{type} { status, reason }
func AdminDecideDocument(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	docType := ctx.Params().GetString("type")

	var body struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Status == "" {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "status required")
		return
	}

	before, err := Fleet.Vehicles.GetVehicle(id)
	if err != nil {
		fleetError(ctx, err)
		return
	}

	vehicle, err := Fleet.DecideDocument(id, docType, body.Status, body.Reason, utils.ActorID(ctx))
	if err != nil {
		fleetError(ctx, err)
		return
	}

	utils.Audit(ctx, "vehicle.document_decision", "vehicle", vehicle.ID, before, vehicle)
	ctx.JSON(iris.Map{"data": vehicle, "meta": iris.Map{}})
}

// POST /admin/fleet/{id}/visibility
func AdminToggleVisibility(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	before, err := Fleet.Vehicles.GetVehicle(id)
	if err != nil {
		fleetError(ctx, err)
		return
	}

	vehicle, err := Fleet.ToggleVisibility(id, utils.ActorID(ctx))
	if err != nil {
		fleetError(ctx, err)
		return
	}

	utils.Audit(ctx, "vehicle.visibility_toggle", "vehicle", vehicle.ID, before, vehicle)
	ctx.JSON(iris.Map{"data": vehicle, "meta": iris.Map{}})
}

// DELETE /admin/fleet/{id}
func AdminDeleteVehicle(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	before, err := Fleet.Vehicles.GetVehicle(id)
	if err != nil {
		fleetError(ctx, err)
		return
	}

	if err := Fleet.RemoveVehicle(id); err != nil {
		fleetError(ctx, err)
		return
	}

	utils.Audit(ctx, "vehicle.delete", "vehicle", id, before, nil)
	ctx.JSON(iris.Map{"data": iris.Map{"deleted": true}})
}
