package routes

import (
	"github.com/kataras/iris/v12"

	"fleet-admin-server/models"
	"fleet-admin-server/services"
	"fleet-admin-server/storage"
)

// GET /admin/fleet/stats
func AdminFleetStats(ctx iris.Context) {
	var pending, approved, rejected int64
	storage.DB.Model(&models.Vehicle{}).Where("document_verification_status = ?", models.VerificationPending).Count(&pending)
	storage.DB.Model(&models.Vehicle{}).Where("document_verification_status = ?", models.VerificationApproved).Count(&approved)
	storage.DB.Model(&models.Vehicle{}).Where("document_verification_status = ?", models.VerificationRejected).Count(&rejected)

	// Approved but manually delisted vehicles usually mean an operator
	// acted on a complaint; worth surfacing.
	var hiddenApproved int64
	storage.DB.Model(&models.Vehicle{}).
		Where("document_verification_status = ? AND visible_on_platform = ?", models.VerificationApproved, false).
		Count(&hiddenApproved)

	// Expiry risk comes from the rule engine, not a SQL date column: the
	// expiry dates live inside the embedded document map.
	expiringVehicles := 0
	expiredVehicles := 0
	if vehicles, err := Fleet.Vehicles.ListVehicles(); err == nil {
		now := Fleet.Clock.Now()
		for i := range vehicles {
			decision := services.EvaluateApproval(vehicles[i].DocumentMap(), now)
			if len(decision.ExpiringSoon) > 0 {
				expiringVehicles++
			}
			if len(decision.Expired) > 0 {
				expiredVehicles++
			}
		}
	}

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"pending_verification":  pending,
			"approved":              approved,
			"rejected":              rejected,
			"hidden_approved":       hiddenApproved,
			"expiring_within_30d":   expiringVehicles,
			"with_expired_document": expiredVehicles,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// GET /admin/activity
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	storage.DB.Order("created_at DESC").Limit(100).Find(&logs)
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}
