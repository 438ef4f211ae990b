// Package service contains the business logic for the trip planner API.
// Services load the trip list, apply a planner operation, and save the result.
// No storage details live here: services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkordes/ourtrip/internal/balance"
	"github.com/pkordes/ourtrip/internal/domain"
	"github.com/pkordes/ourtrip/internal/geocode"
	"github.com/pkordes/ourtrip/internal/planner"
	"github.com/pkordes/ourtrip/internal/repo"
)

// Geocoder is the subset of geocode.Client the service uses.
type Geocoder interface {
	Forward(ctx context.Context, query string) (geocode.Result, error)
	Reverse(ctx context.Context, lat, lng float64) (geocode.Place, error)
	Suggest(ctx context.Context, query string, limit int) ([]geocode.Suggestion, error)
}

// Summary is the expense overview of one trip.
type Summary struct {
	Total       float64                 `json:"total"`
	Balances    []domain.ExpenseBalance `json:"balances"`
	Settlements []domain.Transfer       `json:"settlements"`
}

// TripService implements business logic for trip operations.
//
// Every mutation is a read-modify-write of the whole trip list. mu serialises
// those cycles within the process; separate processes sharing a store still
// race and the last save wins.
type TripService struct {
	mu       sync.Mutex
	repo     repo.TripRepo
	planner  *planner.Planner
	geocoder Geocoder
	logger   *slog.Logger
}

// NewTripService constructs a TripService. geocoder may be nil, in which case
// points are stored exactly as entered. A nil logger selects slog.Default().
func NewTripService(r repo.TripRepo, p *planner.Planner, geocoder Geocoder, logger *slog.Logger) *TripService {
	if p == nil {
		p = planner.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TripService{repo: r, planner: p, geocoder: geocoder, logger: logger}
}

// Create validates and persists a new trip.
func (s *TripService) Create(ctx context.Context, name string, participants []string) (domain.Trip, error) {
	trip, err := s.planner.CreateTrip(name, participants)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trips, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	if err := s.repo.Save(ctx, append(trips, trip)); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return trip, nil
}

// List returns one page of trips in stored order, plus the total count.
func (s *TripService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error) {
	trips, err := s.repo.Load(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	start, end := p.Window(len(trips))
	return trips[start:end], len(trips), nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	trips, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	trip, err := planner.FindTrip(trips, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Delete removes a trip by ID.
func (s *TripService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trips, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	trips, err = planner.DeleteTrip(trips, id)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.repo.Save(ctx, trips); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// AddPointOfInterest completes the draft through the geocoder when it lacks a
// name or coordinates, then appends the point to the trip. A geocoder miss or
// failure is not an error: the point is stored with what the user typed.
func (s *TripService) AddPointOfInterest(ctx context.Context, tripID string, draft planner.Draft) (domain.Trip, error) {
	in, lookup, err := planner.PlanPointOfInterest(draft)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddPointOfInterest: %w", err)
	}
	if lookup.Kind != planner.LookupNone {
		// Unknown trips fail before a lookup is spent; mutate checks again under the lock.
		trips, err := s.repo.Load(ctx)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.AddPointOfInterest: %w", err)
		}
		if _, err := planner.FindTrip(trips, tripID); err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.AddPointOfInterest: %w", err)
		}
	}
	// Lookups run outside the lock; they can take a second or more.
	in = s.resolve(ctx, in, lookup)

	return s.mutate(ctx, "service.TripService.AddPointOfInterest", tripID, func(t domain.Trip) (domain.Trip, error) {
		return s.planner.AddPointOfInterest(t, in)
	})
}

// ReorderPointsOfInterest moves a point within the route.
func (s *TripService) ReorderPointsOfInterest(ctx context.Context, tripID string, from, to int) (domain.Trip, error) {
	return s.mutate(ctx, "service.TripService.ReorderPointsOfInterest", tripID, func(t domain.Trip) (domain.Trip, error) {
		return planner.ReorderPointsOfInterest(t, from, to)
	})
}

// RemovePointOfInterest deletes a point from the route.
func (s *TripService) RemovePointOfInterest(ctx context.Context, tripID, poiID string) (domain.Trip, error) {
	return s.mutate(ctx, "service.TripService.RemovePointOfInterest", tripID, func(t domain.Trip) (domain.Trip, error) {
		return planner.RemovePointOfInterest(t, poiID)
	})
}

// AddExpense validates and records an expense on the trip.
func (s *TripService) AddExpense(ctx context.Context, tripID string, in planner.ExpenseInput) (domain.Trip, error) {
	return s.mutate(ctx, "service.TripService.AddExpense", tripID, func(t domain.Trip) (domain.Trip, error) {
		return s.planner.AddExpense(t, in)
	})
}

// Expenses returns the trip's expenses, newest first.
func (s *TripService) Expenses(ctx context.Context, tripID string) ([]domain.Expense, error) {
	trip, err := s.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return domain.ExpensesByDateDesc(trip), nil
}

// Summary computes the trip total, per-person balances, and a settle-up plan.
func (s *TripService) Summary(ctx context.Context, tripID string) (Summary, error) {
	trip, err := s.GetByID(ctx, tripID)
	if err != nil {
		return Summary{}, err
	}
	balances := balance.Compute(trip.Expenses, trip.Participants)
	return Summary{
		Total:       balance.Total(trip.Expenses),
		Balances:    balances,
		Settlements: balance.Settle(balances),
	}, nil
}

// Markers returns the map markers of the trip's geolocated points.
func (s *TripService) Markers(ctx context.Context, tripID string) ([]domain.MapMarker, error) {
	trip, err := s.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return domain.Markers(trip), nil
}

// Suggest returns autocomplete candidates for a place search. Failures are
// logged and produce an empty list, like a lookup that found nothing.
func (s *TripService) Suggest(ctx context.Context, query string, limit int) []geocode.Suggestion {
	if s.geocoder == nil {
		return []geocode.Suggestion{}
	}
	out, err := s.geocoder.Suggest(ctx, query, limit)
	if err != nil {
		s.logger.WarnContext(ctx, "place suggestions unavailable", "query", query, "error", err)
		return []geocode.Suggestion{}
	}
	return out
}

// mutate runs one load, modify, save cycle on a single trip.
func (s *TripService) mutate(ctx context.Context, op, tripID string, fn func(domain.Trip) (domain.Trip, error)) (domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trips, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	trip, err := planner.FindTrip(trips, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	updated, err := fn(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	trips, err = planner.ReplaceTrip(trips, updated)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.Save(ctx, trips); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// resolve performs the lookup a draft asked for and folds the answer in.
func (s *TripService) resolve(ctx context.Context, in planner.PointOfInterestInput, lookup planner.Lookup) planner.PointOfInterestInput {
	if lookup.Kind == planner.LookupNone {
		return in
	}
	if s.geocoder == nil {
		return lookup.Unresolved(in)
	}

	switch lookup.Kind {
	case planner.LookupForward:
		res, err := s.geocoder.Forward(ctx, lookup.Query)
		if err != nil {
			s.logger.WarnContext(ctx, "forward geocoding failed; storing point without coordinates",
				"query", lookup.Query, "error", err)
			return lookup.Unresolved(in)
		}
		if res.Found {
			return lookup.Resolved(in, "", res.Lat, res.Lng)
		}
	case planner.LookupReverse:
		place, err := s.geocoder.Reverse(ctx, lookup.Lat, lookup.Lng)
		if err != nil {
			s.logger.WarnContext(ctx, "reverse geocoding failed; naming point after its coordinates",
				"lat", lookup.Lat, "lng", lookup.Lng, "error", err)
			return lookup.Unresolved(in)
		}
		if place.Found {
			return lookup.Resolved(in, place.Name, lookup.Lat, lookup.Lng)
		}
	}
	return lookup.Unresolved(in)
}
