package routes

import (
	"github.com/go-chi/chi/v5"

	"pine-rivers/rangekiosk/internal/api"
	"pine-rivers/rangekiosk/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// This keeps API route registration separate from the main router setup.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers) {

	r.Route("/api/v1", func(v1 chi.Router) {

		// kiosk surface: scanner input and session state
		v1.Get("/session", handlers.SessionStatus())
		v1.Post("/session/relock", handlers.Relock())
		v1.Post("/session/kiosk-mode", handlers.SetKioskMode())
		v1.Post("/scan", handlers.ScanLine())
		v1.Post("/scan/key", handlers.ScanKey())

		// PIN unlock is throttled per client to slow down guessing
		v1.Group(func(unlock chi.Router) {
			unlock.Use(middleware.UnlockRateLimitMiddleware)
			unlock.Post("/session/unlock", handlers.UnlockWithPIN())
		})

		// check-in state machine
		v1.Post("/checkin/start", handlers.StartCheckin())
		v1.Post("/checkin/commit", handlers.CommitCheckin())
		v1.Post("/checkin/cancel", handlers.CancelCheckin())
		v1.Get("/checkin/pending", handlers.GetPendingCheckin())

		// ledger views
		v1.Get("/ledger", handlers.GetLedger())
		v1.Get("/ledger/history", handlers.GetLedgerHistory())

		// roster views
		v1.Get("/roster", handlers.GetRoster())
		v1.Get("/roster/status", handlers.GetRosterStatus())

		// admin actions require the session token issued at unlock
		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.SessionAuthMiddleware(deps.Tokens))

			admin.Post("/roster/sync", handlers.TriggerRosterSync())
			admin.Post("/admin/qr-export", handlers.ExportQRCodes())
			admin.Post("/finalize", handlers.Finalize())
		})
	})
}
