/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend
  5. slog:       Request-scoped logger carrying the request ID

ROUTE GROUPS:
  /api/settings         Settings
  /api/days/*           Day entries and per-day computation
  /api/summary/*        Period, week and month totals
  /api/export/*         CSV export
  /api/holidays/*       Holiday import
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/worktime-engine/logging"
)

// DefaultAllowedOrigins is used when no origins are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins ...string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))
	r.Use(requestLogger(h.Logger))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		r.Route("/days", func(r chi.Router) {
			r.Get("/", h.ListDays)
			r.Get("/{date}", h.GetDay)
			r.Put("/{date}", h.SaveDay)
			r.Delete("/{date}", h.DeleteDay)
			r.Get("/{date}/computation", h.GetDayComputation)
		})

		r.Post("/validate", h.Validate)
		r.Post("/net-income", h.NetIncome)

		r.Route("/summary", func(r chi.Router) {
			r.Get("/", h.GetSummary)
			r.Get("/week", h.GetWeekSummary)
			r.Get("/month", h.GetMonthSummary)
		})

		r.Get("/export/csv", h.ExportCSV)

		r.Post("/holidays/import", h.ImportHolidays)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Worktime Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Worktime Engine API</h1>
<ul>
<li><a href="/api/settings">/api/settings</a> - Current settings</li>
<li><a href="/api/summary/week">/api/summary/week</a> - This week</li>
<li><a href="/api/summary/month">/api/summary/month</a> - This month</li>
<li><a href="/api/export/csv">/api/export/csv</a> - This month as CSV</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}

// requestLogger attaches a logger tagged with the chi request ID.
func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With("request_id", middleware.GetReqID(r.Context()))
			next.ServeHTTP(w, r.WithContext(logging.ContextWithLogger(r.Context(), logger)))
		})
	}
}
