/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/members/*       Roster, records, waivers, per-member compliance
  /api/requirements/*  Requirement definitions (factory JSON)
  /api/compliance/*    Station-wide summary and per-requirement report
  /api/scenarios/*     Demo scenarios

EVALUATION QUERIES:
  Every compliance endpoint accepts ?as_of=YYYY-MM-DD. The engine never
  reads the wall clock; the handler supplies today's date when the
  parameter is absent.

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Roster routes
		r.Route("/members", func(r chi.Router) {
			r.Get("/", h.ListMembers)
			r.Post("/", h.CreateMember)
			r.Get("/{id}", h.GetMember)
			r.Delete("/{id}", h.DeleteMember)
			r.Get("/{id}/records", h.ListRecords)
			r.Post("/{id}/records", h.CreateRecord)
			r.Get("/{id}/waivers", h.ListWaivers)
			r.Post("/{id}/waivers", h.CreateWaiver)
			r.Get("/{id}/compliance", h.GetMemberCompliance)
			r.Get("/{id}/requirements/{reqID}", h.GetRequirementProgress)
		})

		// Requirement routes
		r.Route("/requirements", func(r chi.Router) {
			r.Get("/", h.ListRequirements)
			r.Post("/", h.CreateRequirement)
			r.Get("/{id}", h.GetRequirement)
			r.Delete("/{id}", h.DeleteRequirement)
		})

		// Station-wide compliance routes
		r.Route("/compliance", func(r chi.Router) {
			r.Get("/summary", h.GetRosterSummary)
			r.Get("/report", h.GetRequirementReport)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
