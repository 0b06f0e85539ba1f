package routes

import (
	"net/http"
	"sync"
	"time"

	"github.com/kataras/iris/v12"

	"fleet-admin-server/utils"
)

// MirrorDivergence is one mirror row whose status disagrees with the
// authoritative embedded document map.
type MirrorDivergence struct {
	VehicleID    uint   `json:"vehicleID"`
	Mirror       string `json:"mirror"`
	RowID        uint   `json:"rowID"`
	DocumentType string `json:"documentType"`
	RowStatus    string `json:"rowStatus"`
	PrimaryState string `json:"primaryStatus"`
}

type reconcileJob struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"` // pending, processing, done, failed
	CreatedAt int64              `json:"created_at"`
	Checked   int                `json:"checked"`
	Report    []MirrorDivergence `json:"report,omitempty"`
	Error     string             `json:"error,omitempty"`
}

var (
	reconcileJobs   = map[string]*reconcileJob{}
	reconcileJobsMu sync.Mutex
)

// POST /admin/fleet/reconcile
//
// Mirror writes are best-effort, so the copies can fall behind the primary
// record. This scans every vehicle's mirror rows against the embedded map
// and reports the rows an operator needs to fix by hand.
func AdminCreateReconcile(ctx iris.Context) {
	id := time.Now().Format("20060102150405.000000")
	job := &reconcileJob{ID: id, Status: "pending", CreatedAt: time.Now().Unix()}
	reconcileJobsMu.Lock()
	reconcileJobs[id] = job
	reconcileJobsMu.Unlock()

	go runReconcile(job)

	ctx.StatusCode(http.StatusAccepted)
	ctx.JSON(iris.Map{"data": iris.Map{"id": id, "status": job.Status}})
}

// GET /admin/fleet/reconcile/{id}
func AdminGetReconcile(ctx iris.Context) {
	id := ctx.Params().GetString("id")
	// Snapshot under the lock; the worker goroutine mutates the job while
	// it runs.
	reconcileJobsMu.Lock()
	job, ok := reconcileJobs[id]
	var snapshot reconcileJob
	if ok {
		snapshot = *job
	}
	reconcileJobsMu.Unlock()
	if !ok {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "job not found")
		return
	}
	ctx.JSON(iris.Map{"data": snapshot})
}

func runReconcile(job *reconcileJob) {
	setJob := func(update func(*reconcileJob)) {
		reconcileJobsMu.Lock()
		update(job)
		reconcileJobsMu.Unlock()
	}
	setJob(func(j *reconcileJob) { j.Status = "processing" })

	vehicles, err := Fleet.Vehicles.ListVehicles()
	if err != nil {
		setJob(func(j *reconcileJob) {
			j.Status = "failed"
			j.Error = err.Error()
		})
		return
	}

	report := []MirrorDivergence{}
	for i := range vehicles {
		vehicle := &vehicles[i]
		docs := vehicle.DocumentMap()
		for _, mirror := range Fleet.Mirrors {
			rows, err := mirror.ListDocumentRows(vehicle.ID)
			if err != nil {
				setJob(func(j *reconcileJob) {
					j.Status = "failed"
					j.Error = err.Error()
				})
				return
			}
			for _, row := range rows {
				primary := "(absent)"
				if rec, ok := docs[row.DocumentType]; ok {
					primary = rec.Status
				}
				if row.Status != primary {
					report = append(report, MirrorDivergence{
						VehicleID:    vehicle.ID,
						Mirror:       mirror.Name(),
						RowID:        row.ID,
						DocumentType: row.DocumentType,
						RowStatus:    row.Status,
						PrimaryState: primary,
					})
				}
			}
		}
	}

	setJob(func(j *reconcileJob) {
		j.Status = "done"
		j.Checked = len(vehicles)
		j.Report = report
	})
}
