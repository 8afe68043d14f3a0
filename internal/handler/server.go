// Package handler implements the HTTP handlers for the ELD Logbook API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, trip.go, logs.go, export.go) but share the same Server struct.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// TripServicer defines the trip operations the handlers depend on.
type TripServicer interface {
	Calculate(ctx context.Context, req domain.TripRequest) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LogServicer defines the daily-log operations the handlers depend on.
type LogServicer interface {
	Plan(ctx context.Context, input domain.TripInput) ([]domain.DailyLog, error)
	ForTrip(ctx context.Context, id uuid.UUID) ([]domain.DailyLog, error)
}

// ExportServicer defines the export operation the handlers depend on.
type ExportServicer interface {
	Export(ctx context.Context, id uuid.UUID) ([]domain.ExportRow, error)
}

// Server holds the dependencies of every API handler.
type Server struct {
	trips  TripServicer
	logs   LogServicer
	export ExportServicer

	// calculateMW wraps POST /trips/calculate only; it spends routing quota.
	calculateMW []func(http.Handler) http.Handler
}

// NewServer constructs the Server with all its dependencies.
// Any of them may be nil in tests that never reach the matching routes.
func NewServer(trips TripServicer, logs LogServicer, export ExportServicer) *Server {
	return &Server{trips: trips, logs: logs, export: export}
}

// UseOnCalculate adds middleware that runs only for POST /trips/calculate.
func (s *Server) UseOnCalculate(mw ...func(http.Handler) http.Handler) *Server {
	s.calculateMW = append(s.calculateMW, mw...)
	return s
}

// Handler returns a chi router with every API route registered.
// Mount it under the application router, after the middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.With(s.calculateMW...).Post("/calculate", s.CalculateTrip)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Delete("/", s.DeleteTrip)
			r.Get("/logs", s.GetTripLogs)
			r.Get("/export", s.GetTripExport)
		})
	})

	r.Post("/logs", s.PlanLogs)

	return r
}
