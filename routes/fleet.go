package routes

import (
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"

	"fleet-admin-server/models"
	"fleet-admin-server/services"
	"fleet-admin-server/storage"
	"fleet-admin-server/utils"
)

// Fleet is the shared workflow service, wired in main and swapped for a fake
// in tests.
var Fleet *services.FleetService

func InitializeFleet(svc *services.FleetService) { Fleet = svc }

// GET /admin/fleet/document-types
//
// The configured compliance paperwork set, so the console renders labels and
// required badges from the same source the rule engine enforces.
func AdminListDocumentTypes(ctx iris.Context) {
	ctx.JSON(iris.Map{"data": services.DocumentTypes, "meta": iris.Map{}})
}

// GET /admin/fleet?status=&partner_id=&visible=&search=&page=&per_page=
func AdminListVehicles(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	partnerID := ctx.URLParamDefault("partner_id", "")
	visible := ctx.URLParamDefault("visible", "")
	search := strings.TrimSpace(ctx.URLParamDefault("search", ""))

	q := storage.DB.Model(&models.Vehicle{})
	if status != "" {
		q = q.Where("document_verification_status = ?", status)
	}
	if partnerID != "" {
		q = q.Where("partner_id = ?", partnerID)
	}
	if visible != "" {
		q = q.Where("visible_on_platform = ?", visible == "true")
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(registration_plate) LIKE ? OR lower(make) LIKE ? OR lower(vehicle_model) LIKE ?", like, like, like)
	}

	var total int64
	q.Count(&total)

	var vehicles []models.Vehicle
	if err := q.Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&vehicles).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, vehicles, page, perPage, total)
}

// GET /admin/fleet/{id}
//
// Returns the vehicle together with a live verification decision so the
// console can list blocking and expiring documents by name before the
// operator commits to anything.
func AdminGetVehicle(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	vehicle, decision, err := Fleet.EvaluateVehicle(id)
	if err != nil {
		fleetError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"data": vehicle, "decision": decision, "meta": iris.Map{}})
}

type CreateVehicleInput struct {
	PartnerID         uint   `json:"partnerID" validate:"required"`
	DriverID          *uint  `json:"driverID"`
	Make              string `json:"make" validate:"required"`
	Model             string `json:"model" validate:"required"`
	Year              int    `json:"year" validate:"required,gte=1990"`
	RegistrationPlate string `json:"registrationPlate" validate:"required,max=16"`
}

// POST /admin/fleet
func AdminCreateVehicle(ctx iris.Context) {
	var input CreateVehicleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	vehicle := models.Vehicle{
		PartnerID:         input.PartnerID,
		DriverID:          input.DriverID,
		Make:              input.Make,
		VehicleModel:      input.Model,
		Year:              input.Year,
		RegistrationPlate: strings.ToUpper(strings.TrimSpace(input.RegistrationPlate)),
	}
	if err := storage.CreateVehicle(storage.DB, &vehicle); err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "vehicle.create", "vehicle", vehicle.ID, nil, vehicle)
	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{"data": &vehicle})
}
