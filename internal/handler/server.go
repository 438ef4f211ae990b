// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, point.go, ...) but share the same Server struct
// so they can access its dependencies. Routes wires them into a chi router.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/ourtrip/internal/domain"
	"github.com/pkordes/ourtrip/internal/geocode"
	"github.com/pkordes/ourtrip/internal/planner"
	"github.com/pkordes/ourtrip/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching storage or the service layer.
type TripServicer interface {
	Create(ctx context.Context, name string, participants []string) (domain.Trip, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error)
	GetByID(ctx context.Context, id string) (domain.Trip, error)
	Delete(ctx context.Context, id string) error

	AddPointOfInterest(ctx context.Context, tripID string, draft planner.Draft) (domain.Trip, error)
	ReorderPointsOfInterest(ctx context.Context, tripID string, from, to int) (domain.Trip, error)
	RemovePointOfInterest(ctx context.Context, tripID, poiID string) (domain.Trip, error)
	Markers(ctx context.Context, tripID string) ([]domain.MapMarker, error)

	AddExpense(ctx context.Context, tripID string, in planner.ExpenseInput) (domain.Trip, error)
	Expenses(ctx context.Context, tripID string) ([]domain.Expense, error)
	Summary(ctx context.Context, tripID string) (service.Summary, error)

	Suggest(ctx context.Context, query string, limit int) []geocode.Suggestion
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips  TripServicer
	export ExportServicer
	logger *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger selects slog.Default().
func NewServer(trips TripServicer, export ExportServicer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{trips: trips, export: export, logger: logger}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil)
}

// Routes returns a chi router with every endpoint registered.
// Middleware is the caller's concern; main.go applies it around this router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Delete("/", s.DeleteTrip)

			r.Post("/points", s.AddPointOfInterest)
			r.Post("/points/reorder", s.ReorderPointsOfInterest)
			r.Delete("/points/{poiId}", s.RemovePointOfInterest)
			r.Get("/markers", s.ListMarkers)

			r.Get("/expenses", s.ListExpenses)
			r.Post("/expenses", s.AddExpense)
			r.Get("/balances", s.GetBalances)
		})
	})

	r.Get("/export", s.GetExport)
	r.Get("/geocode/suggest", s.SuggestPlaces)

	return r
}
