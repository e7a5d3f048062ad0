/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for a browser frontend

ROUTE GROUPS:
  /api/status        Onboarding state
  /api/settings/*    Accrual policy
  /api/events/*      Planned events
  /api/summary       Dashboard
  /api/accruals      Upcoming paychecks
  /api/export.xlsx   Workbook download
  /api/import        Browser data import
  /api/rollover/*    Rollover watch
  /                  Plain index of the API

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/ptoplanner/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultCORSOrigins are the dev-server origins allowed when none are configured.
var DefaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	if len(corsOrigins) == 0 {
		corsOrigins = DefaultCORSOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.GetStatus)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.PutSettings)
			r.Get("/default", h.GetDefaultSettings)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/", h.CreateEvent)
			r.Post("/preview", h.PreviewEvent)
			r.Get("/{id}", h.GetEvent)
			r.Put("/{id}", h.UpdateEvent)
			r.Delete("/{id}", h.DeleteEvent)
			r.Get("/{id}/availability", h.GetAvailability)
		})

		r.Get("/summary", h.GetSummary)
		r.Get("/accruals", h.GetAccruals)
		r.Get("/export.xlsx", h.ExportWorkbook)
		r.Post("/import", h.ImportLegacy)

		r.Route("/rollover", func(r chi.Router) {
			r.Get("/", h.GetRolloverStatus)
			r.Post("/check", h.CheckRollover)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>PTO Planner</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>PTO Planner API</h1>
<ul>
<li><a href="/api/status">/api/status</a> - Onboarding state</li>
<li><a href="/api/settings">/api/settings</a> - Accrual settings</li>
<li><a href="/api/events">/api/events</a> - Planned time off</li>
<li><a href="/api/summary">/api/summary</a> - Dashboard</li>
<li><a href="/api/export.xlsx">/api/export.xlsx</a> - Download workbook</li>
</ul>
</body>
</html>`))
	})

	return r
}
