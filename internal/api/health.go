package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"pine-rivers/rangekiosk/internal/models/entities"
)

// HealthCheckHandler handles GET /healthCheck
func HealthCheckHandler(rosterDB *sqlx.DB, mirrorDB *gorm.DB, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		services := make(map[string]entities.ServiceStatus)

		// Roster source is optional; the kiosk still runs on a stale snapshot
		if rosterDB == nil {
			services["roster_db"] = entities.ServiceStatus{
				Status:  "not_configured",
				Details: "No roster data source configured",
			}
		} else {
			status := "ok"
			details := "Roster database connected"
			if err := rosterDB.Ping(); err != nil {
				status = "down"
				details = err.Error()
			}
			services["roster_db"] = entities.ServiceStatus{
				Status:  status,
				Details: details,
			}
		}

		mirrorStatus := "ok"
		mirrorDetails := "Mirror store connected"
		if sqlDB, err := mirrorDB.DB(); err != nil {
			mirrorStatus = "down"
			mirrorDetails = err.Error()
		} else if err := sqlDB.Ping(); err != nil {
			mirrorStatus = "down"
			mirrorDetails = err.Error()
		}
		services["mirror"] = entities.ServiceStatus{
			Status:  mirrorStatus,
			Details: mirrorDetails,
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status == "down" {
				overallStatus = "down"
				break
			}
		}

		now := time.Now()
		uptime := now.Sub(upSince).Round(time.Second).String()

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			Uptime:   uptime,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
